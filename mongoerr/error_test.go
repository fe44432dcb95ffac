package mongoerr

import "testing"

func TestCodedErrorMessage(t *testing.T) {
	err := Coded(DuplicateKey, "E11000 duplicate key error")
	if err.Kind != KindCoded {
		t.Fatalf("expected KindCoded, got %v", err.Kind)
	}
	want := "Coded: E11000 duplicate key error (code 11000, DuplicateKey)"
	if err.Error() != want {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestIsNetworkError(t *testing.T) {
	if !IsNetworkError(Coded(HostUnreachable, "")) {
		t.Fatal("HostUnreachable should be a network error")
	}
	if IsNetworkError(Coded(DuplicateKey, "")) {
		t.Fatal("DuplicateKey must not be a network error")
	}
	if !IsNetworkError(New(KindIO, "connection reset")) {
		t.Fatal("KindIO must always be a network error")
	}
}

func TestIsInterruption(t *testing.T) {
	if !IsInterruption(Coded(ExceededTimeLimit, "")) {
		t.Fatal("ExceededTimeLimit should be an interruption")
	}
	if IsInterruption(Coded(BadValue, "")) {
		t.Fatal("BadValue must not be an interruption")
	}
}

func TestIsIndexCreationError(t *testing.T) {
	if !IsIndexCreationError(Coded(IndexKeySpecsConflict, "")) {
		t.Fatal("IndexKeySpecsConflict should be an index creation error")
	}
	if IsIndexCreationError(Coded(NotMaster, "")) {
		t.Fatal("NotMaster must not be an index creation error")
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := New(KindDefault, "root cause")
	err := Wrap(KindIO, "dial failed", cause)
	if err.Unwrap() != cause {
		t.Fatal("Unwrap must return the wrapped cause")
	}
}

func TestErrorCodeStringFallsBackForUnknownCode(t *testing.T) {
	if got := ErrorCode(999999).String(); got != "ErrorCode(999999)" {
		t.Fatalf("unexpected fallback string: %q", got)
	}
}
