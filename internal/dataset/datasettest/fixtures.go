// Package datasettest provides small city files for tests.
package datasettest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// ChicagoCSV has gender and birth year columns, with two missing genders.
const ChicagoCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year
1423854,2017-06-23 15:09:32,2017-06-23 15:14:53,321,Wood St & Hubbard St,Damen Ave & Chicago Ave,Subscriber,Male,1992.0
955915,2017-05-25 18:19:03,2017-05-25 18:45:53,1610,Theater on the Lake,Sheffield Ave & Waveland Ave,Subscriber,Female,1992.0
9031,2017-01-04 08:27:49,2017-01-04 08:34:45,416,May St & Taylor St,Wood St & Taylor St,Subscriber,Male,1981.0
304487,2017-03-06 13:49:38,2017-03-06 13:55:28,350,Wood St & Hubbard St,Damen Ave & Chicago Ave,Subscriber,,
45207,2017-01-17 14:53:07,2017-01-17 15:02:41,534,Clark St & Randolph St,Desplaines St & Jackson Blvd,Customer,,
1473887,2017-06-26 09:01:20,2017-06-26 09:11:06,586,Clinton St & Washington Blvd,Wood St & Hubbard St,Dependent,Female,2002.0
`

// WashingtonCSV has neither gender nor birth year.
const WashingtonCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type
1621326,2017-06-21 08:36:34,2017-06-21 08:44:43,489.066,14th & Belmont St NW,15th & K St NW,Subscriber
482740,2017-03-11 10:40:00,2017-03-11 10:46:00,402.549,Yuma St & Tenley Circle NW,Connecticut Ave & Yuma St NW,Subscriber
1330037,2017-05-30 01:02:59,2017-05-30 01:13:37,637.251,17th St & Massachusetts Ave NW,5th & K St NW,Subscriber
665458,2017-04-02 07:48:35,2017-04-02 08:19:03,1827.341,Constitution Ave & 2nd St NW/DOL,M St & Pennsylvania Ave NW,Customer
`

// NewYorkCSV has a row with a missing user type.
const NewYorkCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year
5688089,2017-06-11 14:55:05,2017-06-11 15:08:21,795,Suffolk St & Stanton St,W Broadway & Spring St,Subscriber,Male,1998.0
4096714,2017-05-11 15:30:11,2017-05-11 15:41:43,692,Lexington Ave & E 63 St,1 Ave & E 78 St,Subscriber,Male,1981.0
2173887,2017-03-29 13:26:26,2017-03-29 13:48:31,1325,1 Pl & Clinton St,Henry St & Degraw St,,,
`

// SequentialCSV returns a file of n rows starting on 2017-01-02 (a Monday),
// one row per day at 08:00, all between the same two stations.
func SequentialCSV(n int) string {
	var b strings.Builder
	b.WriteString(",Start Time,End Time,Trip Duration,Start Station,End Station,User Type\n")
	start := time.Date(2017, 1, 2, 8, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		s := start.AddDate(0, 0, i)
		e := s.Add(10 * time.Minute)
		fmt.Fprintf(&b, "%d,%s,%s,600,A St,B St,Subscriber\n",
			i, s.Format("2006-01-02 15:04:05"), e.Format("2006-01-02 15:04:05"))
	}
	return b.String()
}

// WriteCity writes content to dir/file.
func WriteCity(t *testing.T, dir, file, content string) string {
	t.Helper()
	path := filepath.Join(dir, file)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// DataDir writes the three default city files into a temp dir.
func DataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	WriteCity(t, dir, "chicago.csv", ChicagoCSV)
	WriteCity(t, dir, "new_york_city.csv", NewYorkCSV)
	WriteCity(t, dir, "washington.csv", WashingtonCSV)
	return dir
}
