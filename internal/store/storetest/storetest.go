// Package storetest holds the behavioural suite every core.Store backend must pass.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/JonMunkholm/helprobot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store. It registers its own cleanup.
type Factory func(t *testing.T) core.Store

// Run executes the suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("UpsertCreatesThenUpdates", func(t *testing.T) { testUpsertCreatesThenUpdates(t, newStore(t)) })
	t.Run("FindMatchesAnyField", func(t *testing.T) { testFindMatchesAnyField(t, newStore(t)) })
	t.Run("FindOrdersAndLimits", func(t *testing.T) { testFindOrdersAndLimits(t, newStore(t)) })
	t.Run("FindEscapesWildcards", func(t *testing.T) { testFindEscapesWildcards(t, newStore(t)) })
	t.Run("FindCreatedSince", func(t *testing.T) { testFindCreatedSince(t, newStore(t)) })
	t.Run("GetAndDeleteErrorCode", func(t *testing.T) { testGetAndDeleteErrorCode(t, newStore(t)) })
	t.Run("Brands", func(t *testing.T) { testBrands(t, newStore(t)) })
}

// Servo is the reference record used across backends.
var Servo = core.ErrorCodeFields{
	Title:    "Servo Error",
	CauseEN:  "Motor overload",
	RemedyEN: "Check the motor load",
	CauseFR:  "Surcharge moteur",
	RemedyFR: "Vérifier la charge du moteur",
}

func testUpsertCreatesThenUpdates(t *testing.T, s core.Store) {
	ctx := context.Background()

	created, err := s.UpsertErrorCode(ctx, "SRVO-001", Servo)
	require.NoError(t, err)
	assert.True(t, created)

	first, err := s.GetErrorCode(ctx, "SRVO-001")
	require.NoError(t, err)
	assert.Equal(t, Servo, first.ErrorCodeFields)
	assert.False(t, first.CreatedAt.IsZero())

	changed := Servo
	changed.Title = "Servo Alarm"
	created, err = s.UpsertErrorCode(ctx, "SRVO-001", changed)
	require.NoError(t, err)
	assert.False(t, created)

	second, err := s.GetErrorCode(ctx, "SRVO-001")
	require.NoError(t, err)
	assert.Equal(t, "Servo Alarm", second.Title)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt), "created_at must not change on update")

	n, err := s.CountErrorCodes(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func testFindMatchesAnyField(t *testing.T, s core.Store) {
	ctx := context.Background()
	seed(t, s, "SRVO-001", Servo)
	seed(t, s, "MOTN-017", core.ErrorCodeFields{Title: "Limit error", CauseEN: "Axis limit", CauseFR: "Limite d'axe", RemedyFR: "moteur"})
	seed(t, s, "SYST-045", core.ErrorCodeFields{Title: "Overheat", CauseEN: "High temperature", CauseFR: "Température élevée"})

	tests := []struct {
		text string
		want []string
	}{
		{text: "SRVO", want: []string{"SRVO-001"}},
		{text: "srvo", want: []string{"SRVO-001"}},
		{text: "servo err", want: []string{"SRVO-001"}},
		{text: "OVERLOAD", want: []string{"SRVO-001"}},
		{text: "moteur", want: []string{"SRVO-001"}},
		{text: "limit", want: []string{"MOTN-017"}},
		{text: "-0", want: []string{"MOTN-017", "SRVO-001", "SYST-045"}},
		{text: "élevée", want: []string{"SYST-045"}},
		{text: "ÉLEVÉE", want: []string{"SYST-045"}},
		{text: "TEMPÉRATURE", want: []string{"SYST-045"}},
		{text: "zzz", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := s.FindErrorCodes(ctx, core.ErrorCodeFilter{Text: tt.text, Fields: core.SearchFields})
			require.NoError(t, err)
			assert.Equal(t, tt.want, codes(got))
		})
	}

	// remedy_fr is only searched when asked for explicitly.
	got, err := s.FindErrorCodes(ctx, core.ErrorCodeFilter{Text: "moteur", Fields: []core.SearchField{core.FieldRemedyFR}})
	require.NoError(t, err)
	assert.Equal(t, []string{"MOTN-017", "SRVO-001"}, codes(got))
}

func testFindOrdersAndLimits(t *testing.T, s core.Store) {
	ctx := context.Background()
	for i := 15; i >= 1; i-- {
		seed(t, s, fmt.Sprintf("SRVO-%03d", i), core.ErrorCodeFields{Title: "Servo"})
	}

	got, err := s.FindErrorCodes(ctx, core.ErrorCodeFilter{Text: "servo", Fields: core.SearchFields, Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 10)
	assert.Equal(t, "SRVO-001", got[0].Code)
	assert.Equal(t, "SRVO-010", got[9].Code)

	all, err := s.FindErrorCodes(ctx, core.ErrorCodeFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 15)
}

func testFindEscapesWildcards(t *testing.T, s core.Store) {
	ctx := context.Background()
	seed(t, s, "A_1", core.ErrorCodeFields{Title: "underscore"})
	seed(t, s, "AB1", core.ErrorCodeFields{Title: "plain"})
	seed(t, s, "P%2", core.ErrorCodeFields{Title: "percent"})

	got, err := s.FindErrorCodes(ctx, core.ErrorCodeFilter{Text: "_", Fields: []core.SearchField{core.FieldCode}})
	require.NoError(t, err)
	assert.Equal(t, []string{"A_1"}, codes(got))

	got, err = s.FindErrorCodes(ctx, core.ErrorCodeFilter{Text: "%", Fields: []core.SearchField{core.FieldCode}})
	require.NoError(t, err)
	assert.Equal(t, []string{"P%2"}, codes(got))
}

func testFindCreatedSince(t *testing.T, s core.Store) {
	ctx := context.Background()
	seed(t, s, "SRVO-001", Servo)

	got, err := s.FindErrorCodes(ctx, core.ErrorCodeFilter{CreatedSince: time.Now().Add(-time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, []string{"SRVO-001"}, codes(got))

	got, err = s.FindErrorCodes(ctx, core.ErrorCodeFilter{CreatedSince: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func testGetAndDeleteErrorCode(t *testing.T, s core.Store) {
	ctx := context.Background()

	_, err := s.GetErrorCode(ctx, "NOPE")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, s.DeleteErrorCode(ctx, "NOPE"), core.ErrNotFound)

	seed(t, s, "SRVO-001", Servo)
	require.NoError(t, s.DeleteErrorCode(ctx, "SRVO-001"))

	_, err = s.GetErrorCode(ctx, "SRVO-001")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func testBrands(t *testing.T, s core.Store) {
	ctx := context.Background()

	created, err := s.UpsertBrand(ctx, core.Brand{Name: "Fanuc", IsActive: true})
	require.NoError(t, err)
	assert.True(t, created)
	_, err = s.UpsertBrand(ctx, core.Brand{Name: "ABB", IsActive: true})
	require.NoError(t, err)

	created, err = s.UpsertBrand(ctx, core.Brand{Name: "ABB", IsActive: false})
	require.NoError(t, err)
	assert.False(t, created)

	got, err := s.GetBrand(ctx, "ABB")
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	all, err := s.FindBrands(ctx, core.BrandFilter{})
	require.NoError(t, err)
	assert.Equal(t, []core.Brand{{Name: "ABB"}, {Name: "Fanuc", IsActive: true}}, all)

	active := true
	onlyActive, err := s.FindBrands(ctx, core.BrandFilter{Active: &active})
	require.NoError(t, err)
	assert.Equal(t, []core.Brand{{Name: "Fanuc", IsActive: true}}, onlyActive)

	byName, err := s.FindBrands(ctx, core.BrandFilter{Text: "fan"})
	require.NoError(t, err)
	assert.Len(t, byName, 1)

	require.NoError(t, s.DeleteBrand(ctx, "ABB"))
	_, err = s.GetBrand(ctx, "ABB")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, s.DeleteBrand(ctx, "ABB"), core.ErrNotFound)
}

func seed(t *testing.T, s core.Store, code string, fields core.ErrorCodeFields) {
	t.Helper()
	_, err := s.UpsertErrorCode(context.Background(), code, fields)
	require.NoError(t, err)
}

func codes(recs []core.ErrorCode) []string {
	var out []string
	for _, r := range recs {
		out = append(out, r.Code)
	}
	return out
}
