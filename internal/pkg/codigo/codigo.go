package codigo

import (
	"math/rand"
	"regexp"
	"strings"
)

const (
	// Prefixo de todo código público de estagiário.
	Prefixo = "EST-"
	// TamanhoSufixo é o número de caracteres sorteados após o prefixo.
	TamanhoSufixo = 5
	// Alfabeto do sufixo: 36 símbolos, sorteio uniforme.
	Alfabeto = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Formato valida um código completo (e.g., "EST-A1B2C").
var Formato = regexp.MustCompile(`^EST-[A-Z0-9]{5}$`)

// Gerador sorteia códigos no formato EST-XXXXX a partir de uma fonte de
// aleatoriedade injetada, para que a geração seja determinística em testes.
type Gerador struct {
	rnd *rand.Rand
}

// NewGerador cria um Gerador sobre a fonte informada.
func NewGerador(rnd *rand.Rand) *Gerador {
	return &Gerador{rnd: rnd}
}

// Novo sorteia um código completo (prefixo + sufixo aleatório).
// A unicidade contra os códigos já persistidos é responsabilidade do chamador.
func (g *Gerador) Novo() string {
	var b strings.Builder
	b.WriteString(Prefixo)
	for i := 0; i < TamanhoSufixo; i++ {
		b.WriteByte(Alfabeto[g.rnd.Intn(len(Alfabeto))])
	}
	return b.String()
}

// Normalizar aplica a normalização canônica de um código informado pelo
// usuário: trim + uppercase. Normalizar duas vezes é seguro.
func Normalizar(codigo string) string {
	return strings.ToUpper(strings.TrimSpace(codigo))
}
