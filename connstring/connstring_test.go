package connstring

import (
	"testing"
	"time"

	"github.com/nimbusdb/nimbus-go-driver/readpref"
)

func TestParseBasic(t *testing.T) {
	cs, err := Parse("mongodb://user:pass@a,b:27018/mydb?replicaSet=rs0&readPreference=secondary")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cs.Hosts) != 2 || cs.Hosts[0] != "a:27017" || cs.Hosts[1] != "b:27018" {
		t.Fatalf("unexpected hosts: %v", cs.Hosts)
	}
	if cs.Username != "user" || cs.Password != "pass" {
		t.Fatalf("unexpected credentials: %+v", cs)
	}
	if cs.Database != "mydb" {
		t.Fatalf("unexpected database: %q", cs.Database)
	}
	if cs.ReplicaSet != "rs0" {
		t.Fatalf("unexpected replicaSet: %q", cs.ReplicaSet)
	}
	if cs.ReadPreference != readpref.SecondaryMode {
		t.Fatalf("unexpected read preference: %v", cs.ReadPreference)
	}
}

func TestParseTimeouts(t *testing.T) {
	cs, err := Parse("mongodb://h/?connectTimeoutMS=500&serverSelectionTimeoutMS=2000&wTimeoutMS=100&w=majority")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cs.ConnectTimeout != 500*time.Millisecond {
		t.Fatalf("unexpected connect timeout: %v", cs.ConnectTimeout)
	}
	if cs.ServerSelectionTimeout != 2*time.Second {
		t.Fatalf("unexpected server selection timeout: %v", cs.ServerSelectionTimeout)
	}
	if cs.W != -1 {
		t.Fatalf("expected w=majority to parse as -1, got %d", cs.W)
	}
}

func TestParseRejectsBadScheme(t *testing.T) {
	if _, err := Parse("http://h"); err == nil {
		t.Fatal("expected an error for a non-mongodb:// scheme")
	}
}
