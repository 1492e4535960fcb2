package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

var exportHeader = []string{"id", "referred_name", "plan", "status", "referred_at", "commission", "label"}

// ExportReferralsCSV writes the affiliate's referral rows as CSV
func (s *AffiliateService) ExportReferralsCSV(ctx context.Context, userID uint, w io.Writer) error {
	rows, err := s.ListReferrals(ctx, userID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			strconv.FormatUint(uint64(row.ID), 10),
			row.ReferredName,
			row.PlanType,
			string(row.Status),
			row.ReferredAt.UTC().Format(time.RFC3339),
			row.Commission.StringFixed(2),
			row.CommissionLabel,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
