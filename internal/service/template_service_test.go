package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateService(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(testNow)

	tpl, err := svc.templates.Create(ctx, 1, CreateTemplateRequest{
		Name: "Рабочий день",
		Data: json.RawMessage(`{"events":[{"start":"09:00","end":"18:00"}]}`),
	})
	require.NoError(t, err)
	assert.NotZero(t, tpl.ID)

	for _, data := range []string{``, `null`, `{broken`} {
		_, err = svc.templates.Create(ctx, 1, CreateTemplateRequest{Name: "x", Data: json.RawMessage(data)})
		assert.ErrorIs(t, err, ErrValidation, data)
	}
	_, err = svc.templates.Create(ctx, 1, CreateTemplateRequest{Data: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.templates.Create(ctx, 1, CreateTemplateRequest{Name: strings.Repeat("ш", 101), Data: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, ErrValidation)

	list, err := svc.templates.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.JSONEq(t, `{"events":[{"start":"09:00","end":"18:00"}]}`, string(list[0].Data))

	assert.ErrorIs(t, svc.templates.Delete(ctx, 2, tpl.ID), ErrNotFound)
	require.NoError(t, svc.templates.Delete(ctx, 1, tpl.ID))

	list, err = svc.templates.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, list)
}
