package backend

import (
	"context"
	"net/url"

	"github.com/nkcin/restaurant-management-system/app/models"
)

// periodFromPayload normalizes one day-part aggregate
func periodFromPayload(v any) models.PeriodSales {
	m := asMap(v)
	return models.PeriodSales{
		Orders:   pickNumber(m, 0, "orders"),
		Revenue:  pickNumber(m, 0, "revenue"),
		AvgOrder: pickNumber(m, 0, "avgOrder", "avg_order"),
	}
}

// salesDataFromPayload normalizes one day of sales
func salesDataFromPayload(v any) models.SalesData {
	m := asMap(v)
	data := models.SalesData{
		Date: pickString(m, "", "date"),
	}
	if period, ok := firstPresent(m, "morning"); ok {
		data.Morning = periodFromPayload(period)
	}
	if period, ok := firstPresent(m, "afternoon"); ok {
		data.Afternoon = periodFromPayload(period)
	}
	if period, ok := firstPresent(m, "evening"); ok {
		data.Evening = periodFromPayload(period)
	}
	if period, ok := firstPresent(m, "total"); ok {
		data.Total = periodFromPayload(period)
	}
	return data
}

// SalesData fetches per-day sales aggregates for a date range
func (c *Client) SalesData(ctx context.Context, startDate, endDate string) ([]models.SalesData, error) {
	params := url.Values{}
	params.Set("start_date", startDate)
	params.Set("end_date", endDate)
	payload, apiErr := c.get(ctx, "/api/analytics/sales?"+params.Encode())
	if apiErr != nil {
		return nil, apiErr
	}
	items, ok := payload.([]any)
	if !ok {
		return nil, newError(ErrDecode, "unexpected sales data response")
	}
	sales := make([]models.SalesData, 0, len(items))
	for _, item := range items {
		sales = append(sales, salesDataFromPayload(item))
	}
	return sales, nil
}

// DailySales fetches the aggregate for a single day
func (c *Client) DailySales(ctx context.Context, date string) (models.SalesData, error) {
	payload, apiErr := c.get(ctx, "/api/analytics/daily-sales?date="+url.QueryEscape(date))
	if apiErr != nil {
		return models.SalesData{}, apiErr
	}
	return salesDataFromPayload(payload), nil
}
