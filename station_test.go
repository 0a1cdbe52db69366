package chatteroo

import "testing"

func TestNewStationValidation(t *testing.T) {
	if _, err := NewStation("VK7XT", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewStation("vk7xt", 5); err != ErrInvalidCallsign {
		t.Errorf("lowercase callsign: got %v, want ErrInvalidCallsign", err)
	}
	if _, err := NewStation("VK7-XT", 5); err != ErrInvalidCallsign {
		t.Errorf("callsign with dash: got %v, want ErrInvalidCallsign", err)
	}
	if _, err := NewStation("", 5); err != ErrInvalidCallsign {
		t.Errorf("empty callsign: got %v, want ErrInvalidCallsign", err)
	}
	if _, err := NewStation("VK7XT", 10); err != ErrInvalidSsid {
		t.Errorf("ssid 10: got %v, want ErrInvalidSsid", err)
	}
}

func TestStationString(t *testing.T) {
	s, err := NewStation("VK7XT", 5)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := s.String(), "VK7XT-5"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestStationEquality(t *testing.T) {
	a, _ := NewStation("VK7XT", 5)
	b, _ := NewStation("VK7XT", 5)
	c, _ := NewStation("VK7XT", 4)
	d, _ := NewStation("VK7NTK", 5)

	if a != b {
		t.Error("identical stations should compare equal")
	}
	if a == c {
		t.Error("stations with different SSID should not compare equal")
	}
	if a == d {
		t.Error("stations with different callsign should not compare equal")
	}
}

func TestStationBucketRange(t *testing.T) {
	for _, cs := range []string{"VK7XT", "VK7NTK", "W1AW", "VK7FDAE"} {
		for ssid := uint8(0); ssid <= 9; ssid++ {
			s, err := NewStation(cs, ssid)
			if err != nil {
				t.Fatal(err)
			}
			if b := s.Bucket(); b > 15 {
				t.Errorf("Bucket() for %s = %d, want <= 15", s, b)
			}
		}
	}
}

func TestStationBucketStable(t *testing.T) {
	s, _ := NewStation("VK7XT", 5)
	first := s.Bucket()
	for i := 0; i < 10; i++ {
		if s.Bucket() != first {
			t.Fatal("Bucket() is not stable across calls")
		}
	}
}
