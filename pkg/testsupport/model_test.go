package testsupport

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-model-cache/model"
	"github.com/goliatone/go-model-cache/query"
)

type widget struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

func newWidgets() *FakeModel[widget] {
	return &FakeModel[widget]{
		Table: "widgets",
		Rows: []*model.Record[widget]{
			{Value: widget{ID: 1, Label: "gear"}},
			{Value: widget{ID: 2, Label: "bolt"}},
		},
		KeyOf: func(w widget) any { return w.ID },
		Match: func(rec *model.Record[widget], where query.Map) bool {
			label, ok := where.Get("label")
			return !ok || rec.Value.Label == label
		},
	}
}

func TestFakeModel_Queries(t *testing.T) {
	ctx := context.Background()
	m := newWidgets()

	assert.Equal(t, "widgets", m.TableName())
	assert.Equal(t, "id", m.PrimaryKey())
	assert.Equal(t, []string{"id", "label"}, m.Attributes())

	rec, err := m.FindByPk(ctx, "2", nil)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "bolt", rec.Value.Label)

	rec, err = m.FindOne(ctx, &query.FindOptions{Where: query.M("label", "nut")})
	require.NoError(t, err)
	assert.Nil(t, rec)

	all, err := m.FindAll(ctx, &query.FindOptions{Where: query.M("label", "nut")})
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	n, err := m.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, 4, m.TotalCalls())
	assert.Equal(t, 1, m.Calls(query.OpCount))
	assert.Nil(t, m.LastOptions())
}

func TestFakeModel_FindByPkAppliesWhere(t *testing.T) {
	ctx := context.Background()
	m := newWidgets()

	rec, err := m.FindByPk(ctx, 2, &query.FindOptions{Where: query.M("label", "bolt")})
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "bolt", rec.Value.Label)

	rec, err = m.FindByPk(ctx, 2, &query.FindOptions{Where: query.M("label", "gear")})
	require.NoError(t, err)
	assert.Nil(t, rec, "primary key and where are combined")
}

func TestFakeModel_Plain(t *testing.T) {
	m := newWidgets()

	rec, err := m.FindOne(context.Background(), &query.FindOptions{Raw: true})
	require.NoError(t, err)
	require.True(t, rec.IsPlain())
	assert.Equal(t, map[string]any{"id": int64(1), "label": "gear"}, rec.Plain)
}

func TestFakeModel_Err(t *testing.T) {
	m := newWidgets()
	m.Err = errors.New("boom")

	_, err := m.FindAll(context.Background(), nil)
	assert.ErrorIs(t, err, m.Err)
	assert.Equal(t, 1, m.Calls(query.OpFindAll))
}
