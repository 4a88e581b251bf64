// Package dashboarding implementa o pipeline de agregação do painel de
// vendas: índice de vendedores, resolução de vendedor por cadeia de
// estratégias e agregação dos totais.
package dashboarding

import (
	"sort"
	"strings"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

// Fragmentos de nome com até este tamanho não entram no índice, para evitar
// casamentos espúrios
const minNameFragmentLen = 3

// SellerIndex mantém as estruturas de busca usadas na atribuição de vendas:
// id exato, email normalizado (completo e parte local), nome normalizado
// (completo, fragmentos e variante sem acentos) e posse de leads.
type SellerIndex struct {
	byID          map[string]*domain.Seller
	byEmail       map[string]string
	byName        map[string]string
	leadsBySeller map[string]map[string]struct{}

	// emailKeys em ordem determinística: chave mais longa primeiro, empate
	// resolvido lexicograficamente
	emailKeys []string
	// sellerIDs em ordem de carga (nome ascendente), para iteração
	// determinística no fallback por lead
	sellerIDs []string
}

func NewSellerIndex(sellers []*domain.Seller, leadsBySeller map[string][]string) *SellerIndex {
	idx := &SellerIndex{
		byID:          make(map[string]*domain.Seller, len(sellers)),
		byEmail:       make(map[string]string),
		byName:        make(map[string]string),
		leadsBySeller: make(map[string]map[string]struct{}, len(leadsBySeller)),
	}

	for _, seller := range sellers {
		idx.byID[seller.ID] = seller
		idx.sellerIDs = append(idx.sellerIDs, seller.ID)

		if seller.Email != "" {
			email := strings.ToLower(seller.Email)
			idx.byEmail[email] = seller.ID

			localPart, _, _ := strings.Cut(email, "@")
			if localPart != "" {
				idx.byEmail[localPart] = seller.ID
			}
		}

		if seller.Name != "" {
			normalized := utils.NormalizeName(seller.Name)
			idx.byName[normalized] = seller.ID

			for _, fragment := range strings.Fields(normalized) {
				if len(fragment) >= minNameFragmentLen {
					idx.byName[fragment] = seller.ID
				}
			}

			folded := utils.StripAccents(normalized)
			if folded != normalized {
				idx.byName[folded] = seller.ID
			}
		}
	}

	for sellerID, leadIDs := range leadsBySeller {
		leadSet := make(map[string]struct{}, len(leadIDs))
		for _, leadID := range leadIDs {
			leadSet[leadID] = struct{}{}
		}
		idx.leadsBySeller[sellerID] = leadSet
	}

	idx.emailKeys = make([]string, 0, len(idx.byEmail))
	for key := range idx.byEmail {
		idx.emailKeys = append(idx.emailKeys, key)
	}
	sort.Slice(idx.emailKeys, func(i, j int) bool {
		if len(idx.emailKeys[i]) != len(idx.emailKeys[j]) {
			return len(idx.emailKeys[i]) > len(idx.emailKeys[j])
		}
		return idx.emailKeys[i] < idx.emailKeys[j]
	})

	return idx
}

// HasSeller informa se o id pertence a um vendedor do painel
func (idx *SellerIndex) HasSeller(id string) bool {
	_, ok := idx.byID[id]
	return ok
}

// Seller retorna o vendedor pelo id
func (idx *SellerIndex) Seller(id string) (*domain.Seller, bool) {
	seller, ok := idx.byID[id]
	return seller, ok
}

// LookupName busca um vendedor por chave de nome já normalizada
func (idx *SellerIndex) LookupName(key string) (string, bool) {
	sellerID, ok := idx.byName[key]
	return sellerID, ok
}

// EmailKeys retorna as chaves de email em ordem determinística
func (idx *SellerIndex) EmailKeys() []string {
	return idx.emailKeys
}

// EmailSeller retorna o vendedor dono de uma chave de email
func (idx *SellerIndex) EmailSeller(key string) string {
	return idx.byEmail[key]
}

// LookupLead encontra o primeiro vendedor (em ordem de carga) que possui o
// lead informado
func (idx *SellerIndex) LookupLead(leadID string) (string, bool) {
	for _, sellerID := range idx.sellerIDs {
		if _, ok := idx.leadsBySeller[sellerID][leadID]; ok {
			return sellerID, true
		}
	}
	return "", false
}
