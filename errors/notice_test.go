package errors

import "testing"

func TestNoticeField(t *testing.T) {
	var n Notice
	n.Field('V', "ERROR")
	n.Field('C', "42601")
	n.Field('M', "syntax error")
	n.Field('n', "my_constraint")
	n.Field('Z', "unknown field code is ignored")

	if n.Severity != "ERROR" || n.Code != "42601" || n.Message != "syntax error" {
		t.Fatalf("unexpected notice %+v", n)
	}
	if n.ConstraintName != "my_constraint" {
		t.Fatalf("unexpected constraint name %q", n.ConstraintName)
	}
}

func TestPgErrorError(t *testing.T) {
	err := &PgError{Notice: Notice{Severity: "ERROR", Message: "bad input", Code: "22000"}}
	if err.Error() != "ERROR: bad input (22000)" {
		t.Fatalf("unexpected error string %q", err.Error())
	}

	noCode := &PgError{Notice: Notice{Severity: "ERROR", Message: "bad input"}}
	if noCode.Error() != "ERROR: bad input" {
		t.Fatalf("unexpected error string %q", noCode.Error())
	}
}

func TestPgErrorIsFatal(t *testing.T) {
	cases := []struct {
		severity string
		fatal    bool
	}{
		{string(LevelError), false},
		{string(LevelWarning), false},
		{string(LevelFatal), true},
		{string(LevelPanic), true},
	}

	for _, c := range cases {
		err := &PgError{Notice: Notice{Severity: c.severity}}
		if err.IsFatal() != c.fatal {
			t.Fatalf("severity %q: expected fatal=%v, got %v", c.severity, c.fatal, err.IsFatal())
		}
	}
}

func TestPgErrorCode(t *testing.T) {
	err := &PgError{Notice: Notice{Code: "23505"}}
	if string(err.Code()) != "23505" {
		t.Fatalf("unexpected code %q", err.Code())
	}
}
