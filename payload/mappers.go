package payload

import (
	"strconv"
	"time"

	"gddi/format"
	"gddi/model"
)

// BuildContext carries the run-wide constants every mapper needs: the
// reference date, the reporting client identifier and the establishment code
// assigned by the receiving system.
type BuildContext struct {
	Date      time.Time
	ClientID  string
	EstabCode string
}

// RefDate renders the reference date in the layout's YYYY-MM-DD form.
func (c BuildContext) RefDate() string {
	return c.Date.Format("2006-01-02")
}

// This population does not operate prescription capture, health
// professionals or reimbursement channels, so the corresponding flags are
// constants rather than source-driven.
const (
	captureTypeNone   = 0   // tipoCaptacaoPrescricao: no prescription capture
	saleChannelWalkIn = 5   // meio: over the counter
	discountGift      = 12  // paraConsumidorFinal: gift / free sample
	docTypeInvoice    = 2   // docTipo: NF-e
	docTypeUnknown    = 0   // docTipo: not informed
	defaultCST        = "60"
	channelFlagOff    = "0"
)

// MapEstablishments converts the site rows. One record per row, always
// emitted; the site type is fixed at distribution center.
func MapEstablishments(rows []model.BranchRow, ctx BuildContext) []model.Establishment {
	out := make([]model.Establishment, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Establishment{
			Cod:                    format.Clip(strconv.FormatInt(r.BranchCode, 10), 14),
			Doc:                    format.FormatCNPJ(model.Str(r.Document)),
			Nome:                   format.Clip(model.Str(r.LegalName), 40),
			NomeOfc:                format.Clip(model.Str(r.TradeName), 40),
			Tipo:                   "CD",
			TipoCaptacaoPrescricao: captureTypeNone,
			Ender: model.Address{
				Descr:  format.Clip(model.Str(r.Street), 70),
				Compl:  "",
				CEP:    format.FormatCEP(model.Str(r.CEP)),
				Cidade: format.Clip(model.Str(r.City), 40),
				UF:     format.Clip(model.Str(r.State), 2),
				Tel:    format.FormatPhone(model.Str(r.Phone)),
			},
			CodIqvia: format.Clip(ctx.EstabCode, 10),
		})
	}
	return out
}

// MapCustomers converts the customer rows. The document format and the
// person/business flag both derive from the digit count: 12 or more digits
// means a business document, exactly 14 means a business entity.
func MapCustomers(rows []model.CustomerRow) []model.Customer {
	out := make([]model.Customer, 0, len(rows))
	for _, r := range rows {
		raw := model.Str(r.Document)
		digits := format.OnlyDigits(raw)

		doc := format.FormatCPF(raw)
		if len(digits) >= 12 {
			doc = format.FormatCNPJ(raw)
		}
		tipo := 1
		if len(digits) == 14 {
			tipo = 2
		}

		out = append(out, model.Customer{
			Cod:       format.Clip(strconv.FormatInt(r.CustomerCode, 10), 14),
			Doc:       doc,
			Nome:      format.Clip(model.Str(r.Name), 40),
			NomeOfc:   format.Clip(model.Str(r.TradeName), 40),
			Tipo:      tipo,
			ProfSaude: 0,
			Ender: model.Address{
				Descr:  format.Clip(model.Str(r.Street), 70),
				Compl:  "",
				CEP:    format.FormatCEP(model.Str(r.CEP)),
				Cidade: format.Clip(model.Str(r.City), 40),
				UF:     format.Clip(model.Str(r.State), 2),
				Tel:    format.FormatPhone(model.Str(r.Phone)),
			},
		})
	}
	return out
}

// resolveBarcode picks the identifying code and reference price from the
// primary row, falling back to the incoming-goods lookup for whichever of
// the two is missing.
func resolveBarcode(code int64, barcode string, price float64, lookup map[int64]model.ProductEntry) (string, float64) {
	entry, ok := lookup[code]
	if !ok {
		return barcode, price
	}
	if barcode == "" && entry.Barcode != "" {
		barcode = entry.Barcode
	}
	if price == 0 && entry.ReferencePrice != 0 {
		price = entry.ReferencePrice
	}
	return barcode, price
}

// MapProducts converts the distinct-product rows. Rows whose barcode cannot
// be resolved from the row or the lookup are dropped: without an identifying
// code the line is not reportable. This is a filter, not an error.
func MapProducts(rows []model.ProductRow, lookup map[int64]model.ProductEntry) []model.Product {
	out := make([]model.Product, 0, len(rows))
	for _, r := range rows {
		ean, price := resolveBarcode(r.ProductCode, model.Str(r.Barcode), format.Round2(model.Float(r.ListPrice)), lookup)
		if ean == "" {
			continue
		}
		out = append(out, model.Product{
			Cod:                    format.Clip(strconv.FormatInt(r.ProductCode, 10), 13),
			EanSellIn:              format.Clip(ean, 14),
			EanSellOut:             format.Clip(ean, 14),
			NCM:                    format.Clip(model.Str(r.NCM), 8),
			Apresent:               format.Clip(model.Str(r.Description), 70),
			Fabr:                   format.Clip(model.Str(r.Manufacturer), 40),
			PrecoFabrica:           model.Money(format.Round2(price)),
			DispViaFarmaciaPopular: channelFlagOff,
			DispViaPbm:             channelFlagOff,
			MarcaPropria:           channelFlagOff,
		})
	}
	return out
}

// MapSales converts the movement rows. A line is free-goods when its unit
// price is zero or the source flagged it; a zero-priced free-goods line is
// reported at the catalog price, with a 100% gift discount block, so the
// transaction is never reported as worthless.
func MapSales(rows []model.MovementRow) []model.SaleLine {
	out := make([]model.SaleLine, 0, len(rows))
	for _, r := range rows {
		unit := format.Round2(model.Float(r.UnitPrice))
		freeGoods := unit == 0 || model.Str(r.FreeGoods) == "S"
		reported := unit
		if freeGoods && unit == 0 {
			reported = format.Round2(model.Float(r.ListPrice))
		}

		fiscalKey := model.Str(r.FiscalKey)
		docTipo := docTypeUnknown
		if fiscalKey != "" && fiscalKey != "0" {
			docTipo = docTypeInvoice
		}

		cst := model.Str(r.TaxSituation)
		if cst == "" {
			cst = defaultCST
		}

		line := model.SaleLine{
			CodEstab:         format.Clip(strconv.FormatInt(r.BranchCode, 10), 14),
			CodCliente:       format.Clip(strconv.FormatInt(r.CustomerCode, 10), 14),
			ComPrescricao:    0,
			ParaUsoProfSaude: 0,
			CodProfSaude:     "0",
			CodProd:          format.Clip(strconv.FormatInt(r.ProductCode, 10), 13),
			Dt:               clipDate(r.ExitDate),
			Qt:               int(model.Int(r.Quantity)),
			Ecommerce:        0,
			Meio:             saleChannelWalkIn,
			DocTipo:          docTipo,
			// Fiscal series is a string in the layout even though the source
			// column is numeric; the number stays an integer.
			DocFiscalSerie: strconv.FormatInt(model.Int(r.FiscalSeries), 10),
			DocFiscalNum:   int(model.Int(r.FiscalNumber)),
			Danfe:          fiscalKey,
			VendaJudic:     0,
			TipoPagto:      0,
			Preco: model.Price{
				Valor: model.PriceValue{
					Liquido: model.Money(reported),
					Bruto:   model.Money(reported),
				},
				ICMS: model.ICMS{
					Isento:   0,
					Aliq:     model.Money(format.Round2(model.Float(r.ICMSRate))),
					Valor:    model.Money(format.Round2(model.Float(r.ICMSValue))),
					Cst:      cst,
					SubsTrib: model.SubsTrib{Valor: 0, EmbutidoPreco: 0, Cest: "0"},
				},
			},
		}

		if freeGoods {
			line.Preco.Desconto = &model.Discount{
				ParaConsumidorFinal: discountGift,
				Perc:                model.Money(100),
				Valor:               model.Money(reported),
			}
		}

		out = append(out, line)
	}
	return out
}

// MapReturns converts the return rows. Returns are magnitude-only in the
// layout, so the quantity is always the absolute value.
func MapReturns(rows []model.ReturnRow) []model.ReturnLine {
	out := make([]model.ReturnLine, 0, len(rows))
	for _, r := range rows {
		qt := model.Int(r.Quantity)
		if qt < 0 {
			qt = -qt
		}
		out = append(out, model.ReturnLine{
			CodEstab:      format.Clip(strconv.FormatInt(r.BranchCode, 10), 14),
			CodCliente:    format.Clip(strconv.FormatInt(r.CustomerCode, 10), 14),
			CodProfSaude:  "0",
			CodProd:       format.Clip(strconv.FormatInt(r.ProductCode, 10), 13),
			ComPrescricao: 0,
			Ecommerce:     0,
			Dt:            clipDate(r.ExitDate),
			Qt:            int(qt),
		})
	}
	return out
}

// MapInventory converts the stock rows, under the same barcode fallback and
// drop rule as MapProducts. The emitted date is the reference date, not the
// row's own: the count is the position at the processed day.
func MapInventory(rows []model.StockRow, lookup map[int64]model.ProductEntry, ctx BuildContext) []model.InventoryLine {
	out := make([]model.InventoryLine, 0, len(rows))
	for _, r := range rows {
		ean, _ := resolveBarcode(r.ProductCode, model.Str(r.Barcode), 0, lookup)
		if ean == "" {
			continue
		}
		out = append(out, model.InventoryLine{
			CodEstab: format.Clip(strconv.FormatInt(r.BranchCode, 10), 14),
			CodProd:  format.Clip(strconv.FormatInt(r.ProductCode, 10), 13),
			Dt:       ctx.RefDate(),
			Qt:       int(model.Int(r.OnHand)),
		})
	}
	return out
}

// clipDate keeps the YYYY-MM-DD prefix of a source timestamp string.
func clipDate(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
