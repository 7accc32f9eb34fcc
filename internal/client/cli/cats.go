package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/catclub/catclub/internal/client/models"
)

func (a *App) ListCats(ctx context.Context) error {
	a.cats.FetchAll(ctx)

	st := a.cats.State()
	if st.Err != "" {
		fmt.Fprintln(a.out, "Error:", st.Err)
		return nil
	}
	if len(st.Cats) == 0 {
		fmt.Fprintln(a.out, "No cats yet.")
		return nil
	}

	ids := make([]string, 0, len(st.Cats))
	for id := range st.Cats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		c := st.Cats[id]
		fmt.Fprintf(a.out, "%s  %s (%s, %d y.o., %d photos)\n", c.ID, c.Name, orDash(c.Breed), c.Age(), len(c.Photos))
	}
	return nil
}

func (a *App) ShowCat(ctx context.Context, id string) error {
	a.cats.FetchOne(ctx, id)

	st := a.cats.State()
	if st.Err != "" {
		fmt.Fprintln(a.out, "Error:", st.Err)
		return nil
	}
	c, ok := a.cats.Get(id)
	if !ok {
		fmt.Fprintln(a.out, "Cat not found:", id)
		return nil
	}

	fmt.Fprintf(a.out, "%s\n  breed: %s\n  age:   %d\n  owner: %s\n", c.Name, orDash(c.Breed), c.Age(), c.OwnerID)
	for _, url := range c.Photos {
		fmt.Fprintln(a.out, "  photo:", url)
	}
	for _, r := range c.GrowthRecords {
		fmt.Fprintf(a.out, "  growth %s: %.1f kg, %.1f cm  %s\n", r.Date, r.Weight, r.Height, r.Notes)
	}
	return nil
}

func (a *App) AddCat(ctx context.Context) error {
	user, ok := a.session.CurrentUser()
	if !ok {
		fmt.Fprintln(a.out, "Log in first.")
		return nil
	}

	name, err := getSimpleText(a.reader, "Cat name", a.out)
	if err != nil {
		return err
	}
	breed, err := getSimpleText(a.reader, "Breed (optional)", a.out)
	if err != nil {
		return err
	}
	birth, err := getSimpleText(a.reader, "Birth date YYYY-MM-DD (optional)", a.out)
	if err != nil {
		return err
	}

	cat, err := a.cats.Create(ctx, models.CatCreate{
		Name:      name,
		Breed:     breed,
		BirthDate: birth,
		Photos:    []string{},
		OwnerID:   user.ID,
	})
	if err != nil {
		fmt.Fprintln(a.out, "Could not create cat:", err)
		return err
	}
	fmt.Fprintf(a.out, "Created %s (id %s)\n", cat.Name, cat.ID)
	return nil
}

func (a *App) DeleteCat(ctx context.Context, id string) error {
	if err := a.cats.Delete(ctx, id); err != nil {
		fmt.Fprintln(a.out, "Could not delete cat:", err)
		return err
	}
	fmt.Fprintln(a.out, "Deleted.")
	return nil
}

// AddGrowth records a growth measurement in the local cache. There is no
// server endpoint for growth records yet, so the record is gone after the
// next refetch.
func (a *App) AddGrowth(ctx context.Context, catID string) error {
	date, err := getSimpleText(a.reader, "Date YYYY-MM-DD", a.out)
	if err != nil {
		return err
	}
	weight, err := a.getFloat("Weight in kg (optional)")
	if err != nil {
		return err
	}
	height, err := a.getFloat("Height in cm (optional)")
	if err != nil {
		return err
	}
	notes, err := getSimpleText(a.reader, "Notes (optional)", a.out)
	if err != nil {
		return err
	}

	rec, err := a.cats.AddGrowthRecord(catID, models.GrowthRecord{
		Date:   date,
		Weight: weight,
		Height: height,
		Notes:  notes,
		Photos: []string{},
	})
	if err != nil {
		fmt.Fprintln(a.out, "Could not add record:", err)
		return err
	}
	fmt.Fprintf(a.out, "Recorded (id %s). Note: growth records are local-only for now.\n", rec.ID)
	return nil
}

func (a *App) getFloat(prompt string) (float64, error) {
	text, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return 0, err
	}
	if text == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		fmt.Fprintln(a.out, "Not a number, skipping:", text)
		return 0, nil
	}
	return v, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
