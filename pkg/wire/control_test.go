package wire

import "testing"

func TestControlByteFlags(t *testing.T) {
	c := FlagDataPresent | FlagEndOfData | FlagAborted

	if !c.DataPresent() || !c.EndOfData() || !c.Aborted() {
		t.Errorf("expected PRESENT, EOD and ABORTED in %s", c)
	}
	if c.LengthPrefixed() {
		t.Errorf("unexpected LEN in %s", c)
	}
}

func TestControlByteSessionTag(t *testing.T) {
	c := (FlagDataPresent | FlagLengthPrefixed).WithSessionTag(11)

	if c.SessionTag() != 11 {
		t.Errorf("SessionTag = %d, want 11", c.SessionTag())
	}
	if !c.DataPresent() || !c.LengthPrefixed() {
		t.Errorf("WithSessionTag changed flag bits: %s", c)
	}

	// Only the low nibble is kept.
	if got := ControlByte(0).WithSessionTag(0x1F).SessionTag(); got != 0x0F {
		t.Errorf("SessionTag = %d, want 15", got)
	}
}

func TestControlByteAcknowledged(t *testing.T) {
	c := (FlagDataPresent | FlagEndOfData | FlagLengthPrefixed | FlagAborted).WithSessionTag(5)
	ack := c.Acknowledged()

	if ack.DataPresent() {
		t.Error("Acknowledged kept dataPresent")
	}
	if ack != c&^FlagDataPresent {
		t.Errorf("Acknowledged = %08b, want %08b", ack, c&^FlagDataPresent)
	}
	if ack.SessionTag() != 5 || !ack.EndOfData() || !ack.Aborted() || !ack.LengthPrefixed() {
		t.Errorf("Acknowledged lost metadata: %s", ack)
	}
}

func TestControlByteString(t *testing.T) {
	tests := []struct {
		c    ControlByte
		want string
	}{
		{0, "EMPTY"},
		{FlagDataPresent, "PRESENT"},
		{FlagDataPresent | FlagEndOfData, "PRESENT|EOD"},
		{FlagEndOfData | FlagAborted, "EOD|ABORTED"},
		{(FlagDataPresent | FlagLengthPrefixed).WithSessionTag(12), "PRESENT|LEN|tag=12"},
	}

	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("ControlByte(%08b).String() = %q, want %q", uint8(tt.c), got, tt.want)
		}
	}
}
