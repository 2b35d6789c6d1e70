// ABOUTME: PDF generation trigger with its three-way result
// ABOUTME: Maps ready, pending and failed responses to notices
package proposals

import (
	"context"
)

type PDFKind string

const (
	// PDFReady means a document URL came back.
	PDFReady PDFKind = "ready"
	// PDFPending means the service accepted the request without a URL.
	PDFPending PDFKind = "pending"
	PDFFailed  PDFKind = "failed"
)

type PDFResult struct {
	Kind  PDFKind `json:"kind"`
	URL   string  `json:"url,omitempty"`
	Error string  `json:"error,omitempty"`
}

func (r PDFResult) Notice() Notice {
	switch r.Kind {
	case PDFReady:
		return Success("PDF generated successfully!")
	case PDFPending:
		return Info("PDF generated but no URL returned.")
	default:
		if r.Error != "" {
			return Failure(r.Error)
		}
		return Failure("Failed to generate PDF")
	}
}

// RequestPDF asks the service to render the proposal. Rendering happens
// remotely; this only classifies the reply.
func (s *Service) RequestPDF(ctx context.Context, id string) PDFResult {
	u, err := s.user()
	if err != nil {
		return PDFResult{Kind: PDFFailed, Error: "You must be logged in"}
	}
	done, err := s.begin(ActionPDF, id)
	if err != nil {
		return PDFResult{Kind: PDFFailed, Error: err.Error()}
	}
	defer done()

	resp := s.gw.GeneratePDF(ctx, id, u.ID)
	switch {
	case !resp.Success:
		s.logger.Warn("pdf generation failed", "proposal_id", id, "err", resp.Error)
		return PDFResult{Kind: PDFFailed, Error: resp.Error}
	case resp.Data != nil && resp.Data.PDFURL != "":
		s.logger.Info("pdf ready", "proposal_id", id)
		return PDFResult{Kind: PDFReady, URL: resp.Data.PDFURL}
	default:
		return PDFResult{Kind: PDFPending}
	}
}
