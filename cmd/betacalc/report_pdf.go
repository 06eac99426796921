package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-pdf/fpdf"

	"beta_backend/internal/feature/beta/domain/entity"
)

const (
	pdfFont     = "Helvetica"
	plotX       = 20.0
	plotW       = 170.0
	plotH       = 95.0
	pointRadius = 0.6
)

func writePDFFile(path string, r *entity.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writePDF(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// writePDF は指標、解釈、記述統計と散布図を1ページのA4に描画します。
func writePDF(w io.Writer, r *entity.Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s Beta vs %s", r.Symbol, r.Index), true)
	pdf.SetCreator("betacalc "+version, true)
	pdf.SetMargins(20, 15, 20)
	pdf.SetAutoPageBreak(false, 10)
	pdf.AddPage()

	// コアフォントはcp1252のため、²等は変換して出力する
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(pdfFont, "B", 16)
	pdf.CellFormat(0, 9, tr(fmt.Sprintf("%s vs %s (%s)", r.Symbol, r.Index, r.Ticker)), "", 1, "L", false, 0, "")
	pdf.SetFont(pdfFont, "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s to %s  |  risk-free %.2f%% annual  |  %d observations",
		r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly), r.RiskFreeRate, r.Regression.Observations),
		"", 1, "L", false, 0, "")
	pdf.Ln(4)

	// 指標
	pdf.SetFont(pdfFont, "B", 11)
	pdf.SetFillColor(230, 236, 245)
	for _, h := range []string{"Beta", "Jensen's Alpha", "R²"} {
		pdf.CellFormat(plotW/3, 8, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont(pdfFont, "", 11)
	for _, v := range []float64{r.Metrics.Beta, r.Metrics.Alpha, r.Metrics.RSquared} {
		pdf.CellFormat(plotW/3, 8, fmt.Sprintf("%.4f", v), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.Ln(3)

	pdf.SetFont(pdfFont, "", 10)
	pdf.MultiCell(0, 5, tr(r.Interpretation.BetaSentence), "", "L", false)
	pdf.MultiCell(0, 5, tr(r.Interpretation.AlphaSentence), "", "L", false)
	pdf.Ln(3)

	// 記述統計
	pdf.SetFont(pdfFont, "B", 10)
	cols := []string{"Returns (%)", "Mean", "Std Dev", "Min", "Max"}
	colW := plotW / float64(len(cols))
	for _, c := range cols {
		pdf.CellFormat(colW, 7, c, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont(pdfFont, "", 10)
	for _, row := range []struct {
		name string
		s    entity.ReturnSummary
	}{{r.Symbol, r.Summary.Stock}, {r.Index, r.Summary.Market}} {
		pdf.CellFormat(colW, 7, tr(row.name), "1", 0, "L", false, 0, "")
		for _, v := range []float64{row.s.Mean, row.s.StdDev, row.s.Min, row.s.Max} {
			pdf.CellFormat(colW, 7, fmt.Sprintf("%.4f", v), "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.CellFormat(0, 7, fmt.Sprintf("Correlation: %.4f", r.Summary.Correlation), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	drawScatter(pdf, tr, r.Chart)

	return pdf.Output(w)
}

// drawScatter は超過リターンの散布図と回帰直線を描画します。
func drawScatter(pdf *fpdf.Fpdf, tr func(string) string, ch entity.Chart) {
	pdf.SetFont(pdfFont, "B", 11)
	pdf.CellFormat(0, 7, tr(ch.ScatterTitle), "", 1, "C", false, 0, "")
	top := pdf.GetY() + 2

	pdf.SetDrawColor(120, 120, 120)
	pdf.Rect(plotX, top, plotW, plotH, "D")

	pdf.SetFont(pdfFont, "", 8)
	pdf.Text(plotX+plotW/2-20, top+plotH+6, tr(ch.XAxisTitle))
	pdf.TransformBegin()
	pdf.TransformRotate(90, plotX-4, top+plotH/2+20)
	pdf.Text(plotX-4, top+plotH/2+20, tr(ch.YAxisTitle))
	pdf.TransformEnd()

	if len(ch.Scatter) == 0 {
		return
	}

	minX, maxX := ch.Scatter[0].X, ch.Scatter[0].X
	minY, maxY := ch.Scatter[0].Y, ch.Scatter[0].Y
	for _, p := range ch.Scatter {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	for _, p := range ch.Trendline {
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	if maxX == minX {
		maxX, minX = maxX+1, minX-1
	}
	if maxY == minY {
		maxY, minY = maxY+1, minY-1
	}

	px := func(x float64) float64 { return plotX + (x-minX)/(maxX-minX)*plotW }
	py := func(y float64) float64 { return top + plotH - (y-minY)/(maxY-minY)*plotH }

	// 軸（0%）
	pdf.SetDrawColor(200, 200, 200)
	if minX < 0 && maxX > 0 {
		pdf.Line(px(0), top, px(0), top+plotH)
	}
	if minY < 0 && maxY > 0 {
		pdf.Line(plotX, py(0), plotX+plotW, py(0))
	}

	pdf.SetFillColor(31, 119, 180)
	for _, p := range ch.Scatter {
		pdf.Circle(px(p.X), py(p.Y), pointRadius, "F")
	}

	pdf.SetDrawColor(214, 39, 40)
	pdf.SetLineWidth(0.4)
	pdf.Line(px(ch.Trendline[0].X), py(ch.Trendline[0].Y), px(ch.Trendline[1].X), py(ch.Trendline[1].Y))
}
