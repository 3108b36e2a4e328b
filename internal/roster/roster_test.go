package roster

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "2024_virginia.csv", `name,number,position,class,bats,throws,hometown
Trey Ford,1,CF,Jr,R,R,"Richmond, Va."
Kyle Teel,5,C,Jr,L,R,"Mahwah, N.J."
`)
	writeFile(t, dir, "2024_vmi.csv", `name,number,position
Sam Ford,9,LF
`)
	writeFile(t, dir, "notes.txt", "not a roster")
	writeFile(t, dir, "scratch.csv", "name\nIgnored Player\n")

	set, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}

	r := set.ForTeam("virginia", 2024)
	if r == nil {
		t.Fatal("no virginia 2024 roster")
	}
	if len(r.Players) != 2 {
		t.Fatalf("got %d players, want 2", len(r.Players))
	}
	ford := r.Players[0]
	if ford.FirstName != "Trey" || ford.LastName != "Ford" || ford.Number != "1" {
		t.Errorf("ford = %+v", ford)
	}
	if ford.Hometown != "Richmond, Va." {
		t.Errorf("hometown = %q", ford.Hometown)
	}
	if ford.Team != "virginia" || ford.Season != 2024 {
		t.Errorf("context = %s/%d", ford.Team, ford.Season)
	}

	fords := set.ByLastName("FORD")
	if len(fords) != 2 {
		t.Errorf("ByLastName(FORD) = %d players, want 2 across rosters", len(fords))
	}
}

func TestLoadDirEmpty(t *testing.T) {
	if _, err := LoadDir(t.TempDir()); err == nil {
		t.Fatal("empty dir accepted")
	}
}

func TestLoadHeaderlessFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "2024_vmi.csv", `Sam Ford,9,LF,Fr,R,R,Roanoke
`)
	set, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	r := set.ForTeam("vmi", 2024)
	if r == nil || len(r.Players) != 1 {
		t.Fatalf("headerless roster = %+v", r)
	}
	if r.Players[0].FullName != "Sam Ford" || r.Players[0].Position != "LF" {
		t.Errorf("player = %+v", r.Players[0])
	}
}

func TestPlayerIDsUniqueWithinRoster(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "2024_virginia.csv", `name,number
James Smith,2
Jameson Smith,3
`)
	set, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	players := set.ForTeam("virginia", 2024).Players
	if len(players) != 2 {
		t.Fatalf("got %d players", len(players))
	}
	// Same six-letter last stem and three-letter first stem would collide
	// without the sequence suffix.
	if players[0].ID == players[1].ID {
		t.Errorf("duplicate ids: %s / %s", players[0].ID, players[1].ID)
	}
}

func TestSplitName(t *testing.T) {
	cases := []struct {
		full        string
		first, last string
	}{
		{"Trey Ford", "Trey", "Ford"},
		{"Gus Van Sickle", "Gus Van", "Sickle"},
		{"Eddie Martinez Jr.", "Eddie", "Martinez Jr."},
		{"Cher", "", "Cher"},
	}
	for _, tc := range cases {
		first, last := SplitName(tc.full)
		if first != tc.first || last != tc.last {
			t.Errorf("SplitName(%q) = %q/%q, want %q/%q", tc.full, first, last, tc.first, tc.last)
		}
	}
}

func TestIDStem(t *testing.T) {
	cases := []struct{ first, last, want string }{
		{"Trey", "Ford", "ford--tre"},
		{"Kyle", "Teel", "teel--kyl"},
		{"Angelo", "Barbery", "barberang"},
	}
	for _, tc := range cases {
		if got := idStem(tc.first, tc.last); got != tc.want {
			t.Errorf("idStem(%q, %q) = %q, want %q", tc.first, tc.last, got, tc.want)
		}
	}
}
