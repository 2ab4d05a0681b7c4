package analytics

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/errors"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/store"
)

// Export implements Service. Datasets are bounded by the configured export
// cap; an unknown data type or format surfaces as a validation error.
func (s *service) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.Export")
	defer span.End()

	if req.Format != ExportCSV && req.Format != ExportJSON {
		return nil, errors.NewValidationError("INVALID_FILTER",
			fmt.Sprintf("unknown export format %q", req.Format))
	}

	header, rows, payload, err := s.exportData(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &ExportResult{
		FileName:    fmt.Sprintf("%s_export_%s.%s", req.DataType, time.Now().UTC().Format("20060102_150405"), req.Format),
		RecordCount: len(rows),
	}

	switch req.Format {
	case ExportCSV:
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write(header); err != nil {
			return nil, errors.NewInternalError("csv write failed").WithCause(err)
		}
		if err := w.WriteAll(rows); err != nil {
			return nil, errors.NewInternalError("csv write failed").WithCause(err)
		}
		result.ContentType = "text/csv"
		result.Data = buf.Bytes()
	case ExportJSON:
		raw, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, errors.NewInternalError("json encode failed").WithCause(err)
		}
		result.ContentType = "application/json"
		result.Data = raw
	}

	s.metrics.ExportRecords.Add(ctx, int64(result.RecordCount))
	return result, nil
}

// exportData loads one dataset and renders it both as CSV rows and as the
// JSON payload, so the two formats always agree on content.
func (s *service) exportData(ctx context.Context, req ExportRequest) ([]string, [][]string, interface{}, error) {
	limit := s.cfg.ExportMaxRecords

	switch req.DataType {
	case "customers":
		records, err := s.store.ListCustomers(ctx, store.Filter{}, limit)
		if err != nil {
			return nil, nil, nil, err
		}
		header := []string{"id", "email", "total_orders", "total_returns", "return_rate", "fraud_score", "risk_level", "is_blacklisted"}
		rows := make([][]string, 0, len(records))
		for _, c := range records {
			rows = append(rows, []string{
				c.ID.String(), c.Email,
				strconv.Itoa(c.TotalOrders), strconv.Itoa(c.TotalReturns),
				strconv.FormatFloat(c.ReturnRate, 'f', 4, 64),
				strconv.FormatFloat(c.FraudScore, 'f', 2, 64),
				string(c.RiskLevel), strconv.FormatBool(c.IsBlacklisted),
			})
		}
		return header, rows, records, nil

	case "orders":
		records, err := s.store.ListOrders(ctx, dateBound("order_date", req.Filter), limit)
		if err != nil {
			return nil, nil, nil, err
		}
		header := []string{"id", "customer_id", "customer_email", "total_amount", "order_date", "status", "shipping_address", "is_returned"}
		rows := make([][]string, 0, len(records))
		for _, o := range records {
			rows = append(rows, []string{
				o.ID.String(), o.CustomerID.String(), o.CustomerEmail,
				o.TotalAmount.String(), o.OrderDate.UTC().Format(time.RFC3339),
				string(o.Status), o.ShippingAddress, strconv.FormatBool(o.IsReturned),
			})
		}
		return header, rows, records, nil

	case "returns":
		records, err := s.store.ListReturns(ctx, dateBound("return_date", req.Filter), limit)
		if err != nil {
			return nil, nil, nil, err
		}
		header := []string{"id", "order_id", "customer_id", "product_name", "reason", "return_date", "refund_amount", "is_fraud_suspected", "fraud_score"}
		rows := make([][]string, 0, len(records))
		for _, r := range records {
			rows = append(rows, []string{
				r.ID.String(), r.OrderID.String(), r.CustomerID.String(),
				r.ProductName, string(r.Reason),
				r.ReturnDate.UTC().Format(time.RFC3339),
				r.RefundAmount.String(),
				strconv.FormatBool(r.IsFraudSuspected),
				strconv.FormatFloat(r.FraudScore, 'f', 2, 64),
			})
		}
		return header, rows, records, nil

	case "refunds":
		records, err := s.store.ListRefunds(ctx, store.Filter{}, limit)
		if err != nil {
			return nil, nil, nil, err
		}
		header := []string{"id", "return_id", "order_id", "amount", "status", "requested_date", "refund_method"}
		rows := make([][]string, 0, len(records))
		for _, r := range records {
			rows = append(rows, []string{
				r.ID.String(), r.ReturnID.String(), r.OrderID.String(),
				r.Amount.String(), string(r.Status),
				r.RequestedDate.UTC().Format(time.RFC3339), r.RefundMethod,
			})
		}
		return header, rows, records, nil

	case "analytics":
		m, err := s.DashboardMetrics(ctx, req.Filter)
		if err != nil {
			return nil, nil, nil, err
		}
		header := []string{"metric", "value"}
		rows := [][]string{
			{"total_orders", strconv.FormatInt(m.TotalOrders, 10)},
			{"total_returns", strconv.FormatInt(m.TotalReturns, 10)},
			{"total_refunds", strconv.FormatInt(m.TotalRefunds, 10)},
			{"overall_return_rate", strconv.FormatFloat(m.OverallReturnRate, 'f', 4, 64)},
			{"fraud_detection_rate", strconv.FormatFloat(m.FraudDetectionRate, 'f', 4, 64)},
			{"avg_processing_time", strconv.FormatFloat(m.AvgProcessingTime, 'f', 2, 64)},
			{"total_revenue", strconv.FormatFloat(m.TotalRevenue, 'f', 2, 64)},
			{"total_refund_amount", strconv.FormatFloat(m.TotalRefundAmount, 'f', 2, 64)},
			{"high_risk_customers", strconv.FormatInt(m.HighRiskCustomers, 10)},
		}
		return header, rows, m, nil

	default:
		return nil, nil, nil, errors.NewValidationError("INVALID_FILTER",
			fmt.Sprintf("unknown data type %q", req.DataType))
	}
}
