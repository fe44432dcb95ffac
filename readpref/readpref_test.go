package readpref

import (
	"testing"

	"github.com/nimbusdb/nimbus-go-driver/bson"
)

func TestConstructors(t *testing.T) {
	tag := *bson.NewDocument(bson.EC.String("datacenter", "east"))

	cases := []struct {
		rp   *ReadPref
		mode Mode
	}{
		{Primary(), PrimaryMode},
		{PrimaryPreferred(tag), PrimaryPreferredMode},
		{Secondary(tag), SecondaryMode},
		{SecondaryPreferred(), SecondaryPreferredMode},
		{Nearest(), NearestMode},
	}
	for _, c := range cases {
		if c.rp.Mode() != c.mode {
			t.Errorf("Mode() = %v, want %v", c.rp.Mode(), c.mode)
		}
	}
}

func TestTagSetsPreserved(t *testing.T) {
	tag := *bson.NewDocument(bson.EC.String("datacenter", "east"))
	rp := Secondary(tag)
	if len(rp.TagSets()) != 1 {
		t.Fatalf("TagSets() len = %d, want 1", len(rp.TagSets()))
	}
}

func TestModeString(t *testing.T) {
	if PrimaryPreferredMode.String() != "primaryPreferred" {
		t.Errorf("String() = %q", PrimaryPreferredMode.String())
	}
}
