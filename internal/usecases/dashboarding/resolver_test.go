package dashboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

func testIndex() *SellerIndex {
	return NewSellerIndex(
		[]*domain.Seller{
			{ID: "s1", Name: "Julia Souza", Email: "julia@empresa.com"},
			{ID: "s2", Name: "Maria Vitória", Email: "maria.vitoria@empresa.com"},
		},
		map[string][]string{
			"s2": {"l1"},
		},
	)
}

func TestSellerResolver_FallbackChain(t *testing.T) {
	resolver := NewSellerResolver(testIndex())

	tests := []struct {
		name         string
		ref          RecordRef
		wantSeller   string
		wantStrategy string
	}{
		{
			name:         "referência direta válida",
			ref:          RecordRef{SellerRef: "s1"},
			wantSeller:   "s1",
			wantStrategy: "direct-id",
		},
		{
			name:         "nome completo exato",
			ref:          RecordRef{DisplayName: "Julia Souza"},
			wantSeller:   "s1",
			wantStrategy: "exact-name",
		},
		{
			name:         "fragmento do nome",
			ref:          RecordRef{DisplayName: "Julia S. da Costa"},
			wantSeller:   "s1",
			wantStrategy: "name-fragment",
		},
		{
			name:         "nome acentuado casa via accent-fold",
			ref:          RecordRef{DisplayName: "Júlia Soúza "},
			wantSeller:   "s1",
			wantStrategy: "accent-fold",
		},
		{
			name:         "substring de email",
			ref:          RecordRef{DisplayName: "julia@empresa.com (externo)"},
			wantSeller:   "s1",
			wantStrategy: "email-substring",
		},
		{
			name:         "posse de lead quando nada mais casa",
			ref:          RecordRef{SellerRef: "id-fantasma", DisplayName: "Desconhecido", LeadID: "l1"},
			wantSeller:   "s2",
			wantStrategy: "lead-ownership",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sellerID, strategy, ok := resolver.Resolve(tt.ref)
			require.True(t, ok)
			assert.Equal(t, tt.wantSeller, sellerID)
			assert.Equal(t, tt.wantStrategy, strategy)
		})
	}
}

func TestSellerResolver_Unattributed(t *testing.T) {
	resolver := NewSellerResolver(testIndex())

	_, _, ok := resolver.Resolve(RecordRef{
		SellerRef:   "inexistente",
		DisplayName: "Fulano de Tal",
		LeadID:      "lead-sem-dono",
	})
	assert.False(t, ok)
}

func TestSellerResolver_EmptyNameDoesNotMatchEmail(t *testing.T) {
	resolver := NewSellerResolver(testIndex())

	// Nome vazio não pode casar com todas as chaves de email por substring
	_, _, ok := resolver.Resolve(RecordRef{DisplayName: ""})
	assert.False(t, ok)
}

func TestSellerResolver_EmailSubstringDeterministic(t *testing.T) {
	// "mariana" contém "ana" e é contida por "mariana@x.com"; a ordem
	// determinística (chave mais longa primeiro) garante sempre s2
	idx := NewSellerIndex([]*domain.Seller{
		{ID: "s1", Email: "ana@x.com"},
		{ID: "s2", Email: "mariana@x.com"},
	}, nil)
	resolver := NewSellerResolver(idx)

	for i := 0; i < 50; i++ {
		sellerID, strategy, ok := resolver.Resolve(RecordRef{DisplayName: "Mariana"})
		require.True(t, ok)
		assert.Equal(t, "email-substring", strategy)
		assert.Equal(t, "s2", sellerID)
	}
}
