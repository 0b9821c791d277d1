package aid

import "testing"

func TestStringKnown(t *testing.T) {
	cases := []struct {
		a    AID
		want string
	}{
		{Enter, "Enter"},
		{Clear, "Clear"},
		{PF1, "PF1"},
		{PF24, "PF24"},
		{PA1, "PA1"},
		{None, "NoAID"},
	}
	for _, c := range cases {
		if got := c.a.String(); got != c.want {
			t.Errorf("AID(0x%02X).String() = %q, want %q", byte(c.a), got, c.want)
		}
	}
}

func TestStringUnknown(t *testing.T) {
	if got := AID(0x01).String(); got != "Unknown" {
		t.Errorf("AID(0x01).String() = %q, want %q", got, "Unknown")
	}
}

func TestIsStructuredField(t *testing.T) {
	if !SysReq.IsStructuredField() {
		t.Error("SysReq should report IsStructuredField")
	}
	if Enter.IsStructuredField() {
		t.Error("Enter should not report IsStructuredField")
	}
}
