package address

import "testing"

func TestCanonicalizeAddsDefaultPort(t *testing.T) {
	if got := Address("Host.Example.com").Canonicalize(); got != "host.example.com:27017" {
		t.Fatalf("Canonicalize() = %q", got)
	}
}

func TestCanonicalizeKeepsExplicitPort(t *testing.T) {
	if got := Address("host.example.com:27018").Canonicalize(); got != "host.example.com:27018" {
		t.Fatalf("Canonicalize() = %q", got)
	}
}

func TestCanonicalizeEmptyAddress(t *testing.T) {
	if got := Address("").Canonicalize(); got != "localhost:27017" {
		t.Fatalf("Canonicalize() = %q", got)
	}
}

func TestHost(t *testing.T) {
	if got := Address("host.example.com:27017").Host(); got != "host.example.com" {
		t.Fatalf("Host() = %q", got)
	}
}
