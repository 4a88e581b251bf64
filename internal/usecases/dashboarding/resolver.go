package dashboarding

import (
	"strings"

	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

// RecordRef reúne as referências de vendedor que um registro bruto (venda ou
// orçamento) pode carregar
type RecordRef struct {
	SellerRef   string
	DisplayName string
	LeadID      string
}

// resolutionStrategy é uma etapa nomeada da cadeia de atribuição. Cada
// estratégia é independente e testável isoladamente.
type resolutionStrategy interface {
	Name() string
	Resolve(ref RecordRef, idx *SellerIndex) (string, bool)
}

// SellerResolver aplica a cadeia ordenada de estratégias e para na primeira
// que encontrar um vendedor do índice
type SellerResolver struct {
	idx        *SellerIndex
	strategies []resolutionStrategy
}

func NewSellerResolver(idx *SellerIndex) *SellerResolver {
	return &SellerResolver{
		idx: idx,
		strategies: []resolutionStrategy{
			directIDStrategy{},
			exactNameStrategy{},
			nameFragmentStrategy{},
			accentFoldStrategy{},
			emailSubstringStrategy{},
			leadOwnershipStrategy{},
		},
	}
}

// Resolve retorna o vendedor atribuído, o nome da estratégia que resolveu e
// um indicador de sucesso
func (r *SellerResolver) Resolve(ref RecordRef) (sellerID string, strategy string, ok bool) {
	for _, s := range r.strategies {
		if sellerID, ok := s.Resolve(ref, r.idx); ok {
			return sellerID, s.Name(), true
		}
	}
	return "", "", false
}

// directIDStrategy casa a referência direta do registro com um id do índice
type directIDStrategy struct{}

func (directIDStrategy) Name() string { return "direct-id" }

func (directIDStrategy) Resolve(ref RecordRef, idx *SellerIndex) (string, bool) {
	if ref.SellerRef != "" && idx.HasSeller(ref.SellerRef) {
		return ref.SellerRef, true
	}
	return "", false
}

// exactNameStrategy busca o nome completo normalizado no índice
type exactNameStrategy struct{}

func (exactNameStrategy) Name() string { return "exact-name" }

func (exactNameStrategy) Resolve(ref RecordRef, idx *SellerIndex) (string, bool) {
	name := utils.NormalizeName(ref.DisplayName)
	if name == "" {
		return "", false
	}
	return idx.LookupName(name)
}

// nameFragmentStrategy tenta cada fragmento do nome com mais de dois
// caracteres
type nameFragmentStrategy struct{}

func (nameFragmentStrategy) Name() string { return "name-fragment" }

func (nameFragmentStrategy) Resolve(ref RecordRef, idx *SellerIndex) (string, bool) {
	for _, fragment := range strings.Fields(utils.NormalizeName(ref.DisplayName)) {
		if len(fragment) < minNameFragmentLen {
			continue
		}
		if sellerID, ok := idx.LookupName(fragment); ok {
			return sellerID, true
		}
	}
	return "", false
}

// accentFoldStrategy busca o nome completo sem acentos
type accentFoldStrategy struct{}

func (accentFoldStrategy) Name() string { return "accent-fold" }

func (accentFoldStrategy) Resolve(ref RecordRef, idx *SellerIndex) (string, bool) {
	folded := utils.FoldName(ref.DisplayName)
	if folded == "" {
		return "", false
	}
	return idx.LookupName(folded)
}

// emailSubstringStrategy compara o nome do registro com as chaves de email
// indexadas: o nome contém a chave, ou a chave contém a parte do nome antes
// do @. As chaves são percorridas da mais longa para a mais curta (empate em
// ordem lexicográfica), tornando o resultado determinístico.
type emailSubstringStrategy struct{}

func (emailSubstringStrategy) Name() string { return "email-substring" }

func (emailSubstringStrategy) Resolve(ref RecordRef, idx *SellerIndex) (string, bool) {
	name := utils.NormalizeName(ref.DisplayName)
	if name == "" {
		return "", false
	}

	namePrefix, _, _ := strings.Cut(name, "@")

	for _, key := range idx.EmailKeys() {
		if strings.Contains(name, key) || (namePrefix != "" && strings.Contains(key, namePrefix)) {
			return idx.EmailSeller(key), true
		}
	}
	return "", false
}

// leadOwnershipStrategy atribui pelo dono do lead vinculado ao registro
type leadOwnershipStrategy struct{}

func (leadOwnershipStrategy) Name() string { return "lead-ownership" }

func (leadOwnershipStrategy) Resolve(ref RecordRef, idx *SellerIndex) (string, bool) {
	if ref.LeadID == "" {
		return "", false
	}
	return idx.LookupLead(ref.LeadID)
}
