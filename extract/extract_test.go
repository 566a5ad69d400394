package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextPlainFile(t *testing.T) {
	got, err := Text("regras.txt", []byte("  Artigo 1º. Regra.  \n"))
	require.NoError(t, err)
	assert.Equal(t, "Artigo 1º. Regra.", got)
}

func TestTextEmptyFile(t *testing.T) {
	_, err := Text("vazio.txt", []byte("   \n\t"))
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestTextUnknownExtensionTreatedAsText(t *testing.T) {
	got, err := Text("comunicado.md", []byte("# Aviso aos moradores"))
	require.NoError(t, err)
	assert.Equal(t, "# Aviso aos moradores", got)
}

func TestPDFInvalidData(t *testing.T) {
	_, err := PDF([]byte("isto não é um pdf"))
	assert.Error(t, err)
}

func TestDecodeContentText(t *testing.T) {
	stream := []byte(`BT /F1 12 Tf 72 720 Td (Artigo 1) Tj 0 -14 Td (Regra do condominio) Tj ET`)
	got := decodeContentText(stream)
	assert.Contains(t, got, "Artigo 1")
	assert.Contains(t, got, "Regra do condominio")
}

func TestDecodeContentTextIgnoresNonShowingLiterals(t *testing.T) {
	// a literal not followed by a text-showing operator is dropped
	stream := []byte(`(anotacao) BDC (Visivel) Tj`)
	got := decodeContentText(stream)
	assert.NotContains(t, got, "anotacao")
	assert.Contains(t, got, "Visivel")
}

func TestDecodeContentTextEscapes(t *testing.T) {
	stream := []byte(`(par\(ent\)eses \\ ok) Tj`)
	got := decodeContentText(stream)
	assert.Equal(t, `par(ent)eses \ ok`, got)
}
