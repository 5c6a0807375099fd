package service

import "time"

const (
	pathDateLayout     = "20060102"
	pathDateLayoutHint = "YYYYMMDD"
	storeDateLayout    = "2006-01-02"
)

// ParsePathDate validates a YYYYMMDD path parameter and returns it in the
// store's YYYY-MM-DD form. Impossible calendar dates (month 13, Feb 30) are
// rejected by time.Parse; year 0000 is rejected explicitly.
func ParsePathDate(param string, value string) (string, error) {
	if len(value) != len(pathDateLayout) {
		return "", &DateError{Param: param, Value: value}
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return "", &DateError{Param: param, Value: value}
		}
	}
	t, err := time.Parse(pathDateLayout, value)
	if err != nil || t.Year() < 1 {
		return "", &DateError{Param: param, Value: value}
	}
	return t.Format(storeDateLayout), nil
}

// yearBefore returns the store date one calendar year before date.
func yearBefore(date string) (string, error) {
	t, err := time.Parse(storeDateLayout, date)
	if err != nil {
		return "", err
	}
	return t.AddDate(-1, 0, 0).Format(storeDateLayout), nil
}
