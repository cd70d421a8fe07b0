package payload

import "gddi/model"

// Assemble composes the six entity lists into the daily envelope. The
// trailing sections are required by the receiving contract even when this
// business line has nothing to put in them, so they are emitted as empty
// arrays rather than omitted. Assembly never fails.
func Assemble(
	establishments []model.Establishment,
	customers []model.Customer,
	products []model.Product,
	sales []model.SaleLine,
	returns []model.ReturnLine,
	inventory []model.InventoryLine,
	ctx BuildContext,
) model.Envelope {
	return model.Envelope{
		Data:                           ctx.RefDate(),
		Estabelecimentos:               establishments,
		Clientes:                       customers,
		Produtos:                       products,
		Vendas:                         sales,
		VendasDevolucoesCancelamentos:  returns,
		Estoque:                        inventory,
		ProfissionaisSaude:             []any{},
		Pacientes:                      []any{},
		Fornecedores:                   []any{},
		PlanosSaude:                    []any{},
		LaboratoriosPBM:                []any{},
		Compras:                        []any{},
		ComprasDevolucoesCancelamentos: []any{},
		Prescricoes:                    []any{},
	}
}

// Build runs every mapper over one day's row-sets and assembles the result.
func Build(
	movement []model.MovementRow,
	returns []model.ReturnRow,
	branches []model.BranchRow,
	customers []model.CustomerRow,
	stock []model.StockRow,
	products []model.ProductRow,
	lookup map[int64]model.ProductEntry,
	ctx BuildContext,
) model.Envelope {
	return Assemble(
		MapEstablishments(branches, ctx),
		MapCustomers(customers),
		MapProducts(products, lookup),
		MapSales(movement),
		MapReturns(returns),
		MapInventory(stock, lookup, ctx),
		ctx,
	)
}
