package core_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/helprobot/internal/core"
	"github.com/JonMunkholm/helprobot/internal/store/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var servo = core.ErrorCodeFields{
	Title:    "Servo Error",
	CauseEN:  "Motor overload",
	RemedyEN: "Check motor",
	CauseFR:  "Surcharge moteur",
	RemedyFR: "Vérifier moteur",
}

func seededStore(t *testing.T) *memstore.Store {
	t.Helper()
	s := memstore.New()
	_, err := s.UpsertErrorCode(context.Background(), "SRVO-001", servo)
	require.NoError(t, err)
	return s
}

func TestSearch(t *testing.T) {
	svc := core.NewSearchService(seededStore(t))
	ctx := context.Background()

	tests := []struct {
		name       string
		query      string
		lang       core.ResultLanguage
		wantCodes  []string
		wantCause  string
		wantRemedy string
	}{
		{name: "code prefix english", query: "SRVO", lang: core.LangEN, wantCodes: []string{"SRVO-001"}, wantCause: "Motor overload", wantRemedy: "Check motor"},
		{name: "french cause", query: "moteur", lang: core.LangFR, wantCodes: []string{"SRVO-001"}, wantCause: "Surcharge moteur", wantRemedy: "Vérifier moteur"},
		{name: "lower case title", query: "servo error", lang: core.LangEN, wantCodes: []string{"SRVO-001"}, wantCause: "Motor overload", wantRemedy: "Check motor"},
		{name: "no match", query: "zzz", lang: core.LangEN, wantCodes: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Search(ctx, tt.query, tt.lang)
			require.NoError(t, err)

			var got []string
			for _, rec := range res.Records {
				got = append(got, rec.Code)
			}
			assert.Equal(t, tt.wantCodes, got)
			assert.Equal(t, len(tt.wantCodes) == 0, res.Empty())

			if len(tt.wantCodes) > 0 {
				display := res.Display()
				assert.Equal(t, tt.wantCause, display[0].Cause)
				assert.Equal(t, tt.wantRemedy, display[0].Remedy)
				assert.Equal(t, tt.lang, display[0].Language)
			}
		})
	}
}

func TestSearchEmptyQuerySkipsStore(t *testing.T) {
	svc := core.NewSearchService(failingStore{Store: memstore.New()})

	res, err := svc.Search(context.Background(), "", core.LangFR)
	require.NoError(t, err)
	assert.NotNil(t, res.Records)
	assert.True(t, res.Empty())
	assert.Equal(t, core.LangFR, res.Language)
}

func TestSearchDefaultsLanguage(t *testing.T) {
	svc := core.NewSearchService(seededStore(t))

	res, err := svc.Search(context.Background(), "SRVO", "")
	require.NoError(t, err)
	assert.Equal(t, core.LangEN, res.Language)
}

func TestSearchLimit(t *testing.T) {
	s := memstore.New()
	for i := 1; i <= 12; i++ {
		_, err := s.UpsertErrorCode(context.Background(), fmt.Sprintf("SRVO-%03d", i), servo)
		require.NoError(t, err)
	}

	res, err := core.NewSearchService(s).Search(context.Background(), "SRVO", core.LangEN)
	require.NoError(t, err)
	require.Len(t, res.Records, core.SearchResultLimit)
	assert.Equal(t, "SRVO-001", res.Records[0].Code)
	assert.Equal(t, "SRVO-010", res.Records[9].Code)
}

func TestSearchStoreError(t *testing.T) {
	svc := core.NewSearchService(failingStore{Store: memstore.New()})

	_, err := svc.Search(context.Background(), "SRVO", core.LangEN)
	require.Error(t, err)
	assert.ErrorIs(t, err, errStoreDown)
}

var errStoreDown = errors.New("connection refused")

type failingStore struct {
	core.Store
}

func (failingStore) FindErrorCodes(context.Context, core.ErrorCodeFilter) ([]core.ErrorCode, error) {
	return nil, errStoreDown
}

func (failingStore) UpsertErrorCode(context.Context, string, core.ErrorCodeFields) (bool, error) {
	return false, errStoreDown
}
