package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/sanctionlog/internal/common"
	"github.com/dmitrijs2005/sanctionlog/internal/logging"
	"github.com/dmitrijs2005/sanctionlog/internal/server/models"
	"github.com/dmitrijs2005/sanctionlog/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notifyCall struct {
	record models.Sanction
	target string
}

type fakeNotifier struct {
	calls []notifyCall
	err   error
}

func (f *fakeNotifier) Notify(ctx context.Context, s *models.Sanction, target string) error {
	f.calls = append(f.calls, notifyCall{record: *s, target: target})
	return f.err
}

var fixedNow = time.Date(2024, 6, 7, 8, 9, 10, 0, time.UTC)

func newSanctionService(t *testing.T, n Notifier) *SanctionService {
	t.Helper()
	db, m := newStore(t)
	s := NewSanctionService(db, m, n, logging.Nop{})
	s.now = func() time.Time { return fixedNow }
	return s
}

func decodeRequest(t *testing.T, body string) *SanctionRequest {
	t.Helper()
	req := &SanctionRequest{}
	require.NoError(t, json.Unmarshal([]byte(body), req))
	return req
}

func TestNormalizeSanction_Defaults(t *testing.T) {
	for _, body := range []string{`{}`, `{"fecha":null,"objetivo":null,"accion":null,"motivo":null,"gravedad":null,"conteo":null,"pruebas":null,"user_id":null}`} {
		rec, target := NormalizeSanction(decodeRequest(t, body), "mod", fixedNow)

		assert.Equal(t, &models.Sanction{
			Fecha:     "2024-06-07 08:09:10",
			Objetivo:  DefaultObjetivo,
			Accion:    DefaultAccion,
			Motivo:    DefaultMotivo,
			Gravedad:  DefaultGravedad,
			Conteo:    0,
			Pruebas:   "",
			Moderador: "mod",
		}, rec, body)
		assert.Equal(t, DefaultObjetivo, target)
	}
}

func TestNormalizeSanction_NilRequest(t *testing.T) {
	rec, _ := NormalizeSanction(nil, "mod", fixedNow)
	assert.Equal(t, DefaultAccion, rec.Accion)
}

func TestNormalizeSanction_EmptyFechaUsesNow(t *testing.T) {
	rec, _ := NormalizeSanction(decodeRequest(t, `{"fecha":"  "}`), "mod", fixedNow.In(time.FixedZone("X", 3*3600)))
	assert.Equal(t, "2024-06-07 08:09:10", rec.Fecha, "UTC regardless of input zone")

	rec, _ = NormalizeSanction(decodeRequest(t, `{"fecha":"2020-01-01 00:00"}`), "mod", fixedNow)
	assert.Equal(t, "2020-01-01 00:00", rec.Fecha)
}

func TestNormalizeSanction_UserID(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantStored   string
		wantNotified string
	}{
		{"string id", `{"objetivo":"Alice","user_id":"123"}`, "Alice (ID: 123)", "Alice (<@123>)"},
		{"numeric id", `{"objetivo":"Alice","user_id":123}`, "Alice (ID: 123)", "Alice (<@123>)"},
		{"trimmed id", `{"objetivo":"Alice","user_id":" 42 "}`, "Alice (ID: 42)", "Alice (<@42>)"},
		{"blank id", `{"objetivo":"Alice","user_id":"   "}`, "Alice", "Alice"},
		{"null id", `{"objetivo":"Alice","user_id":null}`, "Alice", "Alice"},
		{"id without target", `{"user_id":"7"}`, "— (ID: 7)", "— (<@7>)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, target := NormalizeSanction(decodeRequest(t, tt.body), "mod", fixedNow)
			assert.Equal(t, tt.wantStored, rec.Objetivo)
			assert.Equal(t, tt.wantNotified, target)
		})
	}
}

func TestNormalizeSanction_DropsNULBytes(t *testing.T) {
	body := `{"fecha":"2020\u0000-01-01","objetivo":"Al\u0000ice","user_id":"1\u00002","accion":"ban\u0000","motivo":"\u0000spam","gravedad":"High","pruebas":"http://x\u0000/y"}`
	rec, target := NormalizeSanction(decodeRequest(t, body), "mod", fixedNow)

	assert.Equal(t, "2020-01-01", rec.Fecha)
	assert.Equal(t, "Alice (ID: 12)", rec.Objetivo)
	assert.Equal(t, "Alice (<@12>)", target)
	assert.Equal(t, "ban", rec.Accion)
	assert.Equal(t, "spam", rec.Motivo)
	assert.Equal(t, "http://x/y", rec.Pruebas)
}

func TestParseConteo(t *testing.T) {
	tests := map[string]int{
		``:              0,
		`null`:          0,
		`3`:             3,
		`-2`:            -2,
		`3.9`:           3,
		`-3.9`:          -3,
		`1e2`:           100,
		`"5"`:           5,
		`" 6 "`:         6,
		`""`:            0,
		`"abc"`:         0,
		`"2.5"`:         0,
		`true`:          0,
		`[1]`:           0,
		`{"n":1}`:       0,
		`99999999999`:   0,
		`"99999999999"`: 0,
		`2147483647`:    2147483647,
	}
	for raw, want := range tests {
		assert.Equal(t, want, parseConteo(json.RawMessage(raw)), raw)
	}
}

func TestNormalizeSanction_NonStringScalars(t *testing.T) {
	rec, _ := NormalizeSanction(decodeRequest(t, `{"objetivo":123,"motivo":true,"pruebas":""}`), "mod", fixedNow)
	assert.Equal(t, "123", rec.Objetivo)
	assert.Equal(t, "true", rec.Motivo)
	assert.Empty(t, rec.Pruebas)
}

func TestSubmit_StoresThenNotifies(t *testing.T) {
	n := &fakeNotifier{}
	s := newSanctionService(t, n)
	ctx := context.Background()

	rec, err := s.Submit(ctx, "alice", decodeRequest(t, `{"objetivo":"Alice","user_id":"123","accion":"ban","conteo":"2"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.ID)
	assert.Equal(t, "Alice (ID: 123)", rec.Objetivo)
	assert.Equal(t, "alice", rec.Moderador)
	assert.Equal(t, 2, rec.Conteo)

	require.Len(t, n.calls, 1)
	assert.Equal(t, "Alice (<@123>)", n.calls[0].target)
	assert.Equal(t, int64(1), n.calls[0].record.ID)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Alice (ID: 123)", list[0].Objetivo)
}

func TestSubmit_NotifyFailureKeepsRecord(t *testing.T) {
	n := &fakeNotifier{err: common.ErrWebhookDisabled}
	s := newSanctionService(t, n)
	ctx := context.Background()

	rec, err := s.Submit(ctx, "alice", &SanctionRequest{})
	require.ErrorIs(t, err, common.ErrWebhookDisabled)
	require.NotNil(t, rec)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, rec.ID, list[0].ID)
}

func TestSubmit_RequiresModerator(t *testing.T) {
	n := &fakeNotifier{}
	s := newSanctionService(t, n)

	_, err := s.Submit(context.Background(), "", &SanctionRequest{})
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.Empty(t, n.calls)
}

func TestList_NewestFirst(t *testing.T) {
	s := newSanctionService(t, &fakeNotifier{})
	ctx := context.Background()

	first, err := s.Submit(ctx, "alice", decodeRequest(t, `{"motivo":"first"}`))
	require.NoError(t, err)
	second, err := s.Submit(ctx, "bob", decodeRequest(t, `{"motivo":"second"}`))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Motivo)
	assert.Equal(t, "first", list[1].Motivo)
}

func TestSubmit_StoreErrorSkipsNotify(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	n := &fakeNotifier{}
	s := NewSanctionService(db, repomanager.NewPostgresRepositoryManager(), n, logging.Nop{})

	mock.ExpectQuery("INSERT INTO sanciones").WillReturnError(errors.New("db down"))

	_, err = s.Submit(context.Background(), "alice", &SanctionRequest{})
	require.Error(t, err)
	assert.Empty(t, n.calls)

	mock.ExpectQuery("SELECT id, fecha").WillReturnError(errors.New("db down"))
	_, err = s.List(context.Background())
	require.Error(t, err)
}
