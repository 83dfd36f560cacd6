package radio

import (
	"context"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/deeja/bthome/pkg/bthome"
	"github.com/deeja/bthome/pkg/sensor"
)

// testAdvertisement assembles a plain 23.5 °C frame named TempSensor1/T1.
func testAdvertisement(t *testing.T) bthome.Advertisement {
	t.Helper()
	d, err := bthome.NewDevice(bthome.DeviceConfig{ShortName: "T1", CompleteName: "TempSensor1"})
	if err != nil {
		t.Fatalf("NewDevice() error = %v", err)
	}
	if err := d.AddFloat(sensor.Temperature, 23.5); err != nil {
		t.Fatalf("AddFloat() error = %v", err)
	}
	adv, err := d.Advertisement()
	if err != nil {
		t.Fatalf("Advertisement() error = %v", err)
	}
	return adv
}

func TestSplitAD(t *testing.T) {
	adv := testAdvertisement(t)

	ads, err := SplitAD(adv.Data)
	if err != nil {
		t.Fatalf("SplitAD() error = %v", err)
	}
	want := []struct {
		typ  uint8
		data string
	}{
		{ADFlags, "06"},
		{ADServiceData16, "d2fc40022e09"},
		{ADCompleteName, hex.EncodeToString([]byte("TempSensor1"))},
		{ADShortName, hex.EncodeToString([]byte("T1"))},
	}
	if len(ads) != len(want) {
		t.Fatalf("SplitAD() returned %d structures, want %d", len(ads), len(want))
	}
	for i, w := range want {
		if ads[i].Type != w.typ || hex.EncodeToString(ads[i].Data) != w.data {
			t.Errorf("structure %d = {%#02x %x}, want {%#02x %s}", i, ads[i].Type, ads[i].Data, w.typ, w.data)
		}
	}
}

func TestSplitADMalformed(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  int
		err   bool
	}{
		{"empty", "", 0, false},
		{"zero terminator", "02010600ffff", 1, false},
		{"overrun", "020106050801", 0, true},
		{"length only", "020106ff", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			frame, _ := hex.DecodeString(tc.frame)
			ads, err := SplitAD(frame)
			if tc.err {
				if !errors.Is(err, ErrMalformedAD) {
					t.Errorf("SplitAD() error = %v, want ErrMalformedAD", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitAD() error = %v", err)
			}
			if len(ads) != tc.want {
				t.Errorf("SplitAD() = %d structures, want %d", len(ads), tc.want)
			}
		})
	}
}

func TestParseFrame(t *testing.T) {
	f, err := parseFrame(testAdvertisement(t).Data)
	if err != nil {
		t.Fatalf("parseFrame() error = %v", err)
	}
	if f.name != "TempSensor1" {
		t.Errorf("name = %q, want TempSensor1", f.name)
	}
	if f.uuid != bthome.ServiceUUID {
		t.Errorf("uuid = %#04x", f.uuid)
	}
	if got := hex.EncodeToString(f.serviceData); got != "40022e09" {
		t.Errorf("service data = %s, want 40022e09", got)
	}

	// Short name only.
	frame, _ := hex.DecodeString("020106" + "0516d2fc4001" + "03085431")
	if f, err = parseFrame(frame); err != nil || f.name != "T1" {
		t.Errorf("parseFrame() = %q, %v, want T1", f.name, err)
	}

	if _, err := parseFrame([]byte{0x02, 0x01, 0x06}); !errors.Is(err, ErrNoServiceData) {
		t.Errorf("parseFrame() error = %v, want ErrNoServiceData", err)
	}
}

type recordRadio struct {
	sent   [][]byte
	err    error
	closed bool
}

func (r *recordRadio) Transmit(_ context.Context, adv bthome.Advertisement) error {
	r.sent = append(r.sent, adv.Data)
	return r.err
}

func (r *recordRadio) Close() error {
	r.closed = true
	return r.err
}

func TestMulti(t *testing.T) {
	errBroken := errors.New("broken")
	a, b, c := &recordRadio{}, &recordRadio{err: errBroken}, &recordRadio{}
	m := Multi{a, b, c}

	adv := testAdvertisement(t)
	if err := m.Transmit(context.Background(), adv); !errors.Is(err, errBroken) {
		t.Errorf("Transmit() error = %v, want %v", err, errBroken)
	}
	for i, r := range []*recordRadio{a, b, c} {
		if len(r.sent) != 1 {
			t.Errorf("radio %d sent %d frames, want 1", i, len(r.sent))
		}
	}

	if err := m.Close(); !errors.Is(err, errBroken) {
		t.Errorf("Close() error = %v", err)
	}
	if !a.closed || !c.closed {
		t.Error("Close() skipped radios after a failure")
	}
}
