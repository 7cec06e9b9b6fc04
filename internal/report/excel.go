package report

import (
	"io"

	"github.com/makpal80/avtoray/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheet = "Заказы"

var header = []string{
	"№ заказа", "Дата", "Клиент", "Телефон", "Статус", "Оплата",
	"Товар", "Тип", "Кол-во", "Цена", "Цена со скидкой", "Сумма строки",
	"Сумма без скидок", "Скидка клиента, %", "Наценка", "Итого",
}

type ExcelWriter struct{}

func NewExcelWriter() *ExcelWriter { return &ExcelWriter{} }

// WriteOrders emits one row per order line. Order level columns repeat on every line.
func (ExcelWriter) WriteOrders(w io.Writer, title string, orders []*models.Order) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 2)
	if err := f.SetCellStyle(sheet, "A2", last, bold); err != nil {
		return err
	}

	row := 3
	for _, o := range orders {
		var client, phone string
		if o.User != nil {
			client, phone = o.User.Name, o.User.Phone
		}
		for _, l := range o.Lines {
			variant := ""
			if l.VariantName != nil {
				variant = *l.VariantName
			}
			values := []any{
				o.UserOrderNumber,
				o.CreatedAt.Format("2006-01-02 15:04"),
				client,
				phone,
				string(o.Status),
				string(o.PaymentMethod),
				l.ProductName,
				variant,
				l.Quantity,
				l.OriginalPrice,
				l.DiscountedUnitPrice,
				l.LineTotal,
				o.TotalAmount,
				o.DiscountPercent,
				o.SurchargeAmount,
				o.FinalAmount,
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return err
				}
			}
			row++
		}
	}

	_ = f.SetColWidth(sheet, "A", "F", 14)
	_ = f.SetColWidth(sheet, "G", "H", 28)

	return f.Write(w)
}
