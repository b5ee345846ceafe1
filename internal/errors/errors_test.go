package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	if got := KindOf(Validation("missing field")); got != KindValidation {
		t.Fatalf("expected validation kind, got %s", got)
	}
	if got := KindOf(fmt.Errorf("wrap: %w", Auth("bad token"))); got != KindAuth {
		t.Fatalf("expected auth kind through wrapping, got %s", got)
	}
	if got := KindOf(fmt.Errorf("plain failure")); got != KindStorage {
		t.Fatalf("expected untyped error to default to storage, got %s", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := map[error]int{
		Validation("v"):                    http.StatusBadRequest,
		Auth("a"):                          http.StatusUnauthorized,
		NotFound("n"):                      http.StatusNotFound,
		Storage("s", fmt.Errorf("cause")):  http.StatusInternalServerError,
		fmt.Errorf("untyped"):              http.StatusInternalServerError,
	}
	for err, want := range cases {
		if got := HTTPStatus(err); got != want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", err, got, want)
		}
	}
}

func TestErrorMessageHidesNothingFromLogsButKeepsCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Storage("invoice insert failed", cause)
	if err.Unwrap() != cause {
		t.Fatalf("expected cause to unwrap")
	}
	if err.Error() != "invoice insert failed: connection refused" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}
