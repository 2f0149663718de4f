package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	config "github.com/etuitionbd/etuition_backend/configs"
	"github.com/etuitionbd/etuition_backend/database"
	"github.com/etuitionbd/etuition_backend/models"
	"github.com/google/uuid"
)

// GenerateSettlementReceipt renders a PDF receipt for a freshly settled
// payment and attaches its URL to the payment record. Callers run it in a
// goroutine after settlement commits: receipt generation is cosmetic and a
// failure must not disturb the ledger.
func GenerateSettlementReceipt(payment models.Payment, tuition models.Tuition) {
	htmlData, err := generateReceiptHTML(payment, tuition)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt HTML: %v", err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt PDF: %v", err)
		return
	}

	uploadURL, err := uploadReceiptToCloudinary(pdfBytes, payment.TransactionID)
	if err != nil {
		log.Printf("🔥 Failed to upload receipt to Cloudinary: %v", err)
		return
	}

	if err := database.DB.Model(&models.Payment{}).
		Where("id = ?", payment.ID).
		Update("receipt_url", uploadURL).Error; err != nil {
		log.Printf("🔥 Failed to attach receipt URL to payment %s: %v", payment.ID, err)
		return
	}
	log.Printf("✅ Generated receipt for transaction %s.", payment.TransactionID)
}

func generateReceiptHTML(payment models.Payment, tuition models.Tuition) (string, error) {
	tmpl, err := template.ParseFiles("templates/receipt.html")
	if err != nil {
		return "", err
	}

	data := struct {
		TransactionID string
		StudentEmail  string
		TutorName     string
		Subjects      string
		Amount        string
		PlatformFee   string
		TutorPayout   string
		PaidAt        string
	}{
		TransactionID: payment.TransactionID,
		StudentEmail:  payment.StudentEmail,
		TutorName:     derefString(tuition.TutorName),
		Subjects:      strings.Join(tuition.Subjects, ", "),
		Amount:        fmt.Sprintf("%.2f", payment.Amount),
		PlatformFee:   fmt.Sprintf("%.2f", payment.PlatformFee),
		TutorPayout:   fmt.Sprintf("%.2f", payment.Salary),
		PaidAt:        payment.PaidAt.Format("January 2, 2006"),
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadReceiptToCloudinary(fileBytes []byte, transactionID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("receipts/%s_%s", transactionID, uuid.New().String()),
		Folder:       "etuition_receipts",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
