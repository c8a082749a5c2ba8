package engine

import (
	"fmt"
	"strings"

	"github.com/tartampluch/go-vakitmatik/internal/config"
)

// Fixed device layout. Every literal below is reproduced byte for byte from
// the reference files shipped with the Vakitmatik. The U+FFFD runes stand in
// for Ç, İ, Ş and Ğ, which the firmware's character set lost long ago; the
// device expects them exactly as they are.
const (
	// FullHeaderTemplate opens the first month block. %s is the location name.
	FullHeaderTemplate = "                               T.C.              \n" +
		"                         CUMHURBA�KANLI�I                  \n" +
		"                     D�YANET ��LER� BA�KANLI�I             \n" +
		"              PUSULA KIBLE SEMTi (KUZEYDEN)  147 Derece\n" +
		MiniHeaderTemplate

	// MiniHeaderTemplate opens every following month block.
	MiniHeaderTemplate = "                              %s_N           \n"

	// MonthLineTemplate expects year and month token.
	MonthLineTemplate = "                             %s - %s\n"

	ColumnTitleLine = "           GUN  �MSAK  GUNES  ��LE   �K�ND� AK�AM  YATSI  K.SAT\n"
	SeparatorLine   = "           ---  -----  -----  ----   ------ -----  -----  -----\n"

	// DataLineTemplate expects day, six times and the K.SAT sentinel.
	DataLineTemplate = "           %s   %s  %s  %s  %s  %s  %s  %s\n"

	// MonthEndMarker is DC2 followed by a blank line; the device uses it to
	// detect the end of a month.
	MonthEndMarker = "\x12\n\n"
)

// LocationName returns the name as printed in the device header.
func LocationName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return config.DefaultLocation
	}
	return strings.ToUpper(name)
}

// encoderState is the accumulator threaded through a single Encode call.
type encoderState struct {
	location     string
	started      bool
	currentMonth string
	buf          strings.Builder
}

// Encode renders records, in the order given, as a complete Vakitmatik file.
// Records are never sorted: a month block starts whenever the month differs
// from the previous record's. An empty slice yields an empty document.
func Encode(location string, records []DailyRecord) []byte {
	st := &encoderState{location: LocationName(location)}

	for _, rec := range records {
		if !st.started || rec.Month != st.currentMonth {
			st.startMonth(rec)
		}
		st.writeDay(rec)
	}

	if st.buf.Len() > 0 {
		st.closeMonth()
	}
	return []byte(st.buf.String())
}

// startMonth closes the previous block (if any) and writes the headers for rec's month.
func (st *encoderState) startMonth(rec DailyRecord) {
	if st.started {
		st.closeMonth()
	}
	st.started = true
	st.currentMonth = rec.Month

	if st.buf.Len() == 0 {
		fmt.Fprintf(&st.buf, FullHeaderTemplate, st.location)
	} else {
		fmt.Fprintf(&st.buf, MiniHeaderTemplate, st.location)
	}
	fmt.Fprintf(&st.buf, MonthLineTemplate, rec.Year, rec.Month)
	st.buf.WriteString(ColumnTitleLine)
	st.buf.WriteString(SeparatorLine)
}

func (st *encoderState) writeDay(rec DailyRecord) {
	t := rec.Times
	fmt.Fprintf(&st.buf, DataLineTemplate, rec.Day, t[0], t[1], t[2], t[3], t[4], t[5], KSatSentinel)
}

// closeMonth drops exactly one trailing newline and appends the marker.
func (st *encoderState) closeMonth() {
	s := strings.TrimSuffix(st.buf.String(), "\n")
	st.buf.Reset()
	st.buf.WriteString(s)
	st.buf.WriteString(MonthEndMarker)
}
