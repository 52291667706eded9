package reconcile

// SetCatalogNote replaces the catalog note.
func (e *Engine) SetCatalogNote(text string) bool {
	return e.setText(&e.catalog.Note, text, "catalog note")
}

// SetReportHeader replaces the text shown above the compatibility report.
func (e *Engine) SetReportHeader(text string) bool {
	return e.setText(&e.catalog.ReportHeaderText, text, "report header")
}

// SetReportFooter replaces the text shown below the compatibility report.
func (e *Engine) SetReportFooter(text string) bool {
	return e.setText(&e.catalog.ReportFooterText, text, "report footer")
}

func (e *Engine) setText(field *string, text, label string) bool {
	if *field == text {
		return false
	}
	fragment := valueFragment(label, *field, text)
	*field = text
	e.ledger.Catalog(fragment)
	return true
}
