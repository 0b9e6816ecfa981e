package seed

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/oarkflow/bcl"
)

// init registers a fixed set of gofakeit-backed functions under bcl's
// global function registry, so a Field.Fake name or a manifest's
// "fake_*" default value resolves the same way regardless of which
// package triggered the lookup.
func init() {
	f := gofakeit.New(0)
	bcl.RegisterFunction("fake_uuid", func(args ...any) (any, error) {
		return f.UUID(), nil
	})
	bcl.RegisterFunction("fake_name", func(args ...any) (any, error) {
		return f.Name(), nil
	})
	bcl.RegisterFunction("fake_firstname", func(args ...any) (any, error) {
		return f.FirstName(), nil
	})
	bcl.RegisterFunction("fake_lastname", func(args ...any) (any, error) {
		return f.LastName(), nil
	})
	bcl.RegisterFunction("fake_email", func(args ...any) (any, error) {
		return f.Email(), nil
	})
	bcl.RegisterFunction("fake_phone", func(args ...any) (any, error) {
		return f.Phone(), nil
	})
	bcl.RegisterFunction("fake_address", func(args ...any) (any, error) {
		return f.Address().Address, nil
	})
	bcl.RegisterFunction("fake_city", func(args ...any) (any, error) {
		return f.City(), nil
	})
	bcl.RegisterFunction("fake_state", func(args ...any) (any, error) {
		return f.State(), nil
	})
	bcl.RegisterFunction("fake_zip", func(args ...any) (any, error) {
		return f.Zip(), nil
	})
	bcl.RegisterFunction("fake_country", func(args ...any) (any, error) {
		return f.Country(), nil
	})
	bcl.RegisterFunction("fake_company", func(args ...any) (any, error) {
		return f.Company(), nil
	})
	bcl.RegisterFunction("fake_jobtitle", func(args ...any) (any, error) {
		return f.JobTitle(), nil
	})
	bcl.RegisterFunction("fake_creditcard", func(args ...any) (any, error) {
		return f.CreditCardNumber(nil), nil
	})
	bcl.RegisterFunction("fake_macaddress", func(args ...any) (any, error) {
		return f.MacAddress(), nil
	})
	bcl.RegisterFunction("fake_ipv4", func(args ...any) (any, error) {
		return f.IPv4Address(), nil
	})
	bcl.RegisterFunction("fake_ipv6", func(args ...any) (any, error) {
		return f.IPv6Address(), nil
	})
	bcl.RegisterFunction("fake_date", func(args ...any) (any, error) {
		return f.Date(), nil
	})
	bcl.RegisterFunction("fake_pastdate", func(args ...any) (any, error) {
		return f.DateRange(time.Now().AddDate(-10, 0, 0), time.Now()), nil
	})
	bcl.RegisterFunction("fake_futuredate", func(args ...any) (any, error) {
		return f.DateRange(time.Now(), time.Now().AddDate(10, 0, 0)), nil
	})
	bcl.RegisterFunction("fake_daterange", func(args ...any) (any, error) {
		if len(args) < 2 {
			return nil, fmt.Errorf("fake_daterange requires 2 arguments: start and end date (YYYY-MM-DD)")
		}
		startStr, ok1 := args[0].(string)
		endStr, ok2 := args[1].(string)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("fake_daterange arguments must be strings in format YYYY-MM-DD")
		}
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return nil, err
		}
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return nil, err
		}
		return f.DateRange(start, end), nil
	})
}
