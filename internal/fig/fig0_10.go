package fig

import (
	"time"

	"github.com/magicbadger/dabmux/internal/model"
)

// DateTime encodes FIG 0/10: Modified Julian Day plus UTC time, short
// form (hours/minutes) or long form (adds seconds/milliseconds). Class
// C. Emits nothing when the ensemble's DateTimePolicy disables it.
type DateTime struct {
	Now   func() time.Time
	Long  bool
}

func NewDateTime(now func() time.Time) *DateTime {
	return &DateTime{Now: now}
}

// modifiedJulianDay computes the standard Gregorian-to-MJD value (spec
// §4.2: "no library-specific calendar API is contractual").
func modifiedJulianDay(t time.Time) int {
	y, m, d := t.Date()
	year, month, day := y, int(m), d
	if month <= 2 {
		year--
		month += 12
	}
	a := year / 100
	b := 2 - a + a/4
	jd := int(365.25*float64(year+4716)) + int(30.6001*float64(month+1)) + day + b - 1524
	return jd - 2400001
}

func (dt *DateTime) FIGType() byte          { return 0 }
func (dt *DateTime) Extension() int         { return 10 }
func (dt *DateTime) Class() RepetitionClass { return ClassC }
func (dt *DateTime) Priority() Priority     { return PriorityNormal }

func (dt *DateTime) Fill(buf []byte, max int, snap *model.Snapshot) (int, bool) {
	if snap.DateTimePolicy == model.DateTimeNone {
		return 0, true
	}
	t := dt.Now().UTC()
	mjd := modifiedJulianDay(t)

	dataLen := 4
	if dt.Long {
		dataLen = 6
	}
	d := make([]byte, dataLen)
	d[0] = byte(mjd >> 9)
	d[1] = byte(mjd >> 1)
	d[2] = byte(mjd<<7) | byte(t.Hour()&0x1F)<<2 | byte(t.Minute()>>4)&0x3
	d[3] = byte(t.Minute()&0xF)<<4
	if dt.Long {
		d[3] |= byte(t.Second() & 0x3F >> 2)
		d[4] = byte(t.Second()&0x3) << 6
		ms := t.Nanosecond() / 1_000_000
		d[4] |= byte(ms >> 4)
		d[5] = byte(ms&0xF) << 4
	}

	rec := make([]byte, 1+len(d))
	rec[0] = header(0, len(d))
	copy(rec[1:], d)
	n, fit := writeAtomic(buf, max, rec)
	if !fit {
		return 0, false
	}
	return n, true
}
