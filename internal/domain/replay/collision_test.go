package replay

import "testing"

func sampleRows() []PlayerStats {
	return []PlayerStats{
		{Name: "Nexus", Side: SideBlue, Core: CoreStats{Score: 420, Goals: 2, Assists: 1, Saves: 3, Shots: 5}},
		{Name: "Forge", Side: SideBlue, Core: CoreStats{Score: 310, Goals: 1, Assists: 2, Saves: 1, Shots: 4}},
		{Name: "Talon", Side: SideOrange, Core: CoreStats{Score: 515, Goals: 3, Assists: 0, Saves: 2, Shots: 6}},
		{Name: "Drift", Side: SideOrange, Core: CoreStats{Score: 180, Goals: 0, Assists: 1, Saves: 4, Shots: 2}},
	}
}

func TestDuplicateOf_ExactAgreementIsDuplicate(t *testing.T) {
	candidate := Parsed{FileName: "game1.replay", MapCode: "Stadium_P", Players: sampleRows()}
	remote := Remote{ID: "r-1", MapCode: "Stadium_P", Players: sampleRows()}

	id, err := DuplicateOf(candidate, []Remote{remote})
	if err != nil {
		t.Fatalf("duplicate check failed: %v", err)
	}
	if id != "r-1" {
		t.Fatalf("expected duplicate of r-1, got %q", id)
	}
}

func TestDuplicateOf_SingleStatChangeFlipsClassification(t *testing.T) {
	remote := Remote{ID: "r-1", MapCode: "Stadium_P", Players: sampleRows()}

	rows := sampleRows()
	rows[2].Core.Goals++
	candidate := Parsed{FileName: "game1.replay", MapCode: "Stadium_P", Players: rows}

	id, err := DuplicateOf(candidate, []Remote{remote})
	if err != nil {
		t.Fatalf("duplicate check failed: %v", err)
	}
	if id != "" {
		t.Fatalf("expected no duplicate after stat change, got %q", id)
	}
}

func TestDuplicateOf_MapCodeMismatchSkipsComparison(t *testing.T) {
	candidate := Parsed{FileName: "game1.replay", MapCode: "Wasteland_P", Players: sampleRows()}
	remote := Remote{ID: "r-1", MapCode: "Stadium_P", Players: sampleRows()}

	id, err := DuplicateOf(candidate, []Remote{remote})
	if err != nil {
		t.Fatalf("duplicate check failed: %v", err)
	}
	if id != "" {
		t.Fatalf("expected map-code mismatch to rule out duplicate, got %q", id)
	}
}

func TestDuplicateOf_MissingMapCodeDoesNotGate(t *testing.T) {
	candidate := Parsed{FileName: "game1.replay", Players: sampleRows()}
	remote := Remote{ID: "r-1", MapCode: "Stadium_P", Players: sampleRows()}

	id, err := DuplicateOf(candidate, []Remote{remote})
	if err != nil {
		t.Fatalf("duplicate check failed: %v", err)
	}
	if id != "r-1" {
		t.Fatalf("expected duplicate when only one side reports a map code, got %q", id)
	}
}

func TestDuplicateOf_SameSideRequired(t *testing.T) {
	rows := sampleRows()
	rows[0].Side = SideOrange
	candidate := Parsed{FileName: "game1.replay", MapCode: "Stadium_P", Players: rows}
	remote := Remote{ID: "r-1", MapCode: "Stadium_P", Players: sampleRows()}

	id, err := DuplicateOf(candidate, []Remote{remote})
	if err != nil {
		t.Fatalf("duplicate check failed: %v", err)
	}
	if id != "" {
		t.Fatalf("expected side mismatch to rule out duplicate, got %q", id)
	}
}

func TestDuplicateOf_MalformedCandidateErrors(t *testing.T) {
	candidate := Parsed{FileName: "empty.replay", MapCode: "Stadium_P"}
	remote := Remote{ID: "r-1", MapCode: "Stadium_P", Players: sampleRows()}

	if _, err := DuplicateOf(candidate, []Remote{remote}); err == nil {
		t.Fatal("expected error for candidate without player stats")
	}
}

func TestDuplicateOf_MalformedRemoteErrors(t *testing.T) {
	candidate := Parsed{FileName: "game1.replay", MapCode: "Stadium_P", Players: sampleRows()}
	remote := Remote{ID: "r-1", MapCode: "Stadium_P"}

	if _, err := DuplicateOf(candidate, []Remote{remote}); err == nil {
		t.Fatal("expected error for remote without player stats")
	}
}

func TestFilterNew_ContentNotFileIdentity(t *testing.T) {
	remote := Remote{ID: "r-1", MapCode: "Stadium_P", Players: sampleRows()}

	// Two distinct files with byte-identical parsed stats: both duplicates.
	a := Parsed{FileName: "upload-a.replay", MapCode: "Stadium_P", Players: sampleRows()}
	b := Parsed{FileName: "upload-b.replay", MapCode: "Stadium_P", Players: sampleRows()}

	fresh, duplicates, err := FilterNew([]Parsed{a, b}, []Remote{remote})
	if err != nil {
		t.Fatalf("filter failed: %v", err)
	}
	if len(fresh) != 0 {
		t.Fatalf("expected no fresh replays, got %d", len(fresh))
	}
	if duplicates["upload-a.replay"] != "r-1" || duplicates["upload-b.replay"] != "r-1" {
		t.Fatalf("unexpected duplicate mapping: %v", duplicates)
	}
}

func TestFilterNew_PreservesFreshOrder(t *testing.T) {
	remote := Remote{ID: "r-1", MapCode: "Stadium_P", Players: sampleRows()}

	changed := sampleRows()
	changed[0].Core.Saves++
	first := Parsed{FileName: "first.replay", MapCode: "Stadium_P", Players: changed}

	other := sampleRows()
	other[3].Core.Shots++
	second := Parsed{FileName: "second.replay", MapCode: "Stadium_P", Players: other}

	dup := Parsed{FileName: "dup.replay", MapCode: "Stadium_P", Players: sampleRows()}

	fresh, duplicates, err := FilterNew([]Parsed{first, dup, second}, []Remote{remote})
	if err != nil {
		t.Fatalf("filter failed: %v", err)
	}
	if len(fresh) != 2 || fresh[0].FileName != "first.replay" || fresh[1].FileName != "second.replay" {
		t.Fatalf("unexpected fresh set: %+v", fresh)
	}
	if len(duplicates) != 1 {
		t.Fatalf("expected one duplicate, got %v", duplicates)
	}
}
