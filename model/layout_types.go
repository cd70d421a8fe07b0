package model

import (
	"fmt"
	"strconv"
)

// Money is a monetary amount. It always serializes with exactly two decimal
// places, which the receiving layout requires for every price field.
type Money float64

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%.2f", float64(m))), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*m = Money(v)
	return nil
}

// Address is the nested address object shared by establishments and
// customers. Field names and maximum widths are dictated by the layout.
type Address struct {
	Descr  string `json:"descr"`
	Compl  string `json:"compl"`
	CEP    string `json:"cep"`
	Cidade string `json:"cidade"`
	UF     string `json:"uf"`
	Tel    string `json:"tel"`
}

// Establishment is one reporting site (branch or distribution center).
type Establishment struct {
	Cod                    string  `json:"cod"`
	Doc                    string  `json:"doc"`
	Nome                   string  `json:"nome"`
	NomeOfc                string  `json:"nomeOfc"`
	Tipo                   string  `json:"tipo"`
	TipoCaptacaoPrescricao int     `json:"tipoCaptacaoPrescricao"`
	Ender                  Address `json:"ender"`
	CodIqvia               string  `json:"codIqvia"`
}

// Customer is one buyer, individual (tipo 1) or business (tipo 2).
type Customer struct {
	Cod       string  `json:"cod"`
	Doc       string  `json:"doc"`
	Nome      string  `json:"nome"`
	NomeOfc   string  `json:"nomeOfc"`
	Tipo      int     `json:"tipo"`
	ProfSaude int     `json:"profSaude"`
	Ender     Address `json:"ender"`
}

// Product is one catalog item. A product only appears in the payload when an
// identifying barcode could be resolved.
type Product struct {
	Cod                    string `json:"cod"`
	EanSellIn              string `json:"eanSellIn"`
	EanSellOut             string `json:"eanSellOut"`
	NCM                    string `json:"ncm"`
	Apresent               string `json:"apresent"`
	Fabr                   string `json:"fabr"`
	PrecoFabrica           Money  `json:"precoFabrica"`
	DispViaFarmaciaPopular string `json:"dispViaFarmaciaPopular"`
	DispViaPbm             string `json:"dispViaPbm"`
	MarcaPropria           string `json:"marcaPropria"`
}

// Discount is the optional discount block inside a sale's price. Free-goods
// lines carry it with classification 12 (gift) and 100% percentage.
type Discount struct {
	ParaConsumidorFinal int   `json:"paraConsumidorFinal"`
	Perc                Money `json:"perc"`
	Valor               Money `json:"valor"`
}

// SubsTrib is the tax-substitution block inside ICMS.
type SubsTrib struct {
	Valor         int    `json:"valor"`
	EmbutidoPreco int    `json:"embutidoPreco"`
	Cest          string `json:"cest"`
}

// ICMS carries the state-tax fields of a sale line.
type ICMS struct {
	Isento   int      `json:"isento"`
	Aliq     Money    `json:"aliq"`
	Valor    Money    `json:"valor"`
	Cst      string   `json:"cst"`
	SubsTrib SubsTrib `json:"subsTrib"`
}

// PriceValue holds the reported net and gross amounts.
type PriceValue struct {
	Liquido Money `json:"liquido"`
	Bruto   Money `json:"bruto"`
}

// Price is the full price object of a sale line. Desconto is present only on
// discounted (free-goods) lines.
type Price struct {
	Valor    PriceValue `json:"valor"`
	Desconto *Discount  `json:"desconto,omitempty"`
	ICMS     ICMS       `json:"icms"`
}

// SaleLine is one billed movement line.
type SaleLine struct {
	CodEstab         string `json:"codEstab"`
	CodCliente       string `json:"codCliente"`
	ComPrescricao    int    `json:"comPrescricao"`
	ParaUsoProfSaude int    `json:"paraUsoProfSaude"`
	CodProfSaude     string `json:"codProfSaude"`
	CodProd          string `json:"codProd"`
	Dt               string `json:"dt"`
	Qt               int    `json:"qt"`
	Ecommerce        int    `json:"ecommerce"`
	Meio             int    `json:"meio"`
	DocTipo          int    `json:"docTipo"`
	DocFiscalSerie   string `json:"docFiscalSerie"`
	DocFiscalNum     int    `json:"docFiscalNum"`
	Danfe            string `json:"danfe"`
	VendaJudic       int    `json:"vendaJudic"`
	TipoPagto        int    `json:"tipoPagto"`
	Preco            Price  `json:"preco"`
}

// ReturnLine is one returned or cancelled sale line. Quantity is always the
// positive magnitude, whatever sign the source row carried.
type ReturnLine struct {
	CodEstab      string `json:"codEstab"`
	CodCliente    string `json:"codCliente"`
	CodProfSaude  string `json:"codProfSaude"`
	CodProd       string `json:"codProd"`
	ComPrescricao int    `json:"comPrescricao"`
	Ecommerce     int    `json:"ecommerce"`
	Dt            string `json:"dt"`
	Qt            int    `json:"qt"`
}

// InventoryLine is the on-hand count of one product at one site on the
// reference date.
type InventoryLine struct {
	CodEstab string `json:"codEstab"`
	CodProd  string `json:"codProd"`
	Dt       string `json:"dt"`
	Qt       int    `json:"qt"`
}

// Envelope is the single root object submitted per reference date. The
// trailing sections are contractually required even though this business
// line never populates them.
type Envelope struct {
	Data                           string          `json:"data"`
	Estabelecimentos               []Establishment `json:"estabelecimentos"`
	Clientes                       []Customer      `json:"clientes"`
	Produtos                       []Product       `json:"produtos"`
	Vendas                         []SaleLine      `json:"vendas"`
	VendasDevolucoesCancelamentos  []ReturnLine    `json:"vendasDevolucoesCancelamentos"`
	Estoque                        []InventoryLine `json:"estoque"`
	ProfissionaisSaude             []any           `json:"profissionaisSaude"`
	Pacientes                      []any           `json:"pacientes"`
	Fornecedores                   []any           `json:"fornecedores"`
	PlanosSaude                    []any           `json:"planosSaude"`
	LaboratoriosPBM                []any           `json:"laboratoriosPBM"`
	Compras                        []any           `json:"compras"`
	ComprasDevolucoesCancelamentos []any           `json:"comprasDevolucoesCancelamentos"`
	Prescricoes                    []any           `json:"prescricoes"`
}
