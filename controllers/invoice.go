package controllers

import (
	"bytes"
	"net/http"

	"spa-backend/services"
	"spa-backend/utils"

	"github.com/gin-gonic/gin"
)

type InvoiceController struct {
	invoices *services.InvoiceService
}

func NewInvoiceController(invoices *services.InvoiceService) *InvoiceController {
	return &InvoiceController{invoices: invoices}
}

// GetInvoice returns the invoice of a client's services on the day encoded in :number (INV-YYYYMMDD)
func (ic *InvoiceController) GetInvoice(c *gin.Context) {
	invoice, ok := ic.build(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// GetInvoicePDF renders the same invoice as a PDF attachment
func (ic *InvoiceController) GetInvoicePDF(c *gin.Context) {
	invoice, ok := ic.build(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := services.WriteInvoicePDF(&buf, invoice); err != nil {
		_ = c.Error(err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+invoice.Number+".pdf")
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (ic *InvoiceController) build(c *gin.Context) (*services.Invoice, bool) {
	clientID, ok := paramID(c, "id", "client")
	if !ok {
		return nil, false
	}

	invoice, err := ic.invoices.ForDay(c.Request.Context(), clientID, c.Param("number"))
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	return invoice, true
}
