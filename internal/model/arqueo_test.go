package model_test

import (
	"testing"

	"arqueogw/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizarCompletaDenominaciones(t *testing.T) {
	conteo, err := model.Conteo{1000: 5}.Normalizar()

	require.NoError(t, err)
	assert.Len(t, conteo, len(model.Denominaciones))
	assert.Equal(t, 5, conteo[1000])
	assert.Equal(t, 0, conteo[50])
	assert.Equal(t, 0, conteo[100000])
}

func TestNormalizarRechazaDenominacionDesconocida(t *testing.T) {
	_, err := model.Conteo{25: 1}.Normalizar()

	assert.ErrorContains(t, err, "denominación desconocida")
}

func TestNormalizarRechazaCantidadNegativa(t *testing.T) {
	_, err := model.Conteo{1000: -2}.Normalizar()

	assert.ErrorContains(t, err, "cantidad negativa")
}

func TestNormalizarNoMutaElOriginal(t *testing.T) {
	original := model.Conteo{500: 2}

	_, err := original.Normalizar()

	require.NoError(t, err)
	assert.Len(t, original, 1)
}
