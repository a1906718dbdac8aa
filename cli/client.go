package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"expediter/internal/config"
	"expediter/internal/kds"
	"expediter/internal/models"
	"expediter/internal/notify"
)

// ApiClient handles API requests to the expediter API
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
}

// NewApiClient creates a new API client
func NewApiClient() *ApiClient {
	baseURL := os.Getenv("EXPEDITER_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &ApiClient{
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL: baseURL,
	}
}

// CheckHealth checks if the API is up and running
func (c *ApiClient) CheckHealth() (bool, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("API health check failed with status code: %d", resp.StatusCode)
	}

	return true, nil
}

func (c *ApiClient) getJSON(path string, out interface{}) error {
	resp, err := c.httpClient.Get(c.BaseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s failed with status code: %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *ApiClient) postJSON(path string, body interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Post(c.BaseURL+path, "application/json", bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("POST %s failed with status code: %d", path, resp.StatusCode)
	}
	return nil
}

// GetStations retrieves the station catalog
func (c *ApiClient) GetStations() ([]config.Station, error) {
	var stations []config.Station
	if err := c.getJSON("/api/v1/stations", &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

// GetColumns retrieves the sorted board for a station
func (c *ApiClient) GetColumns(station string) (*kds.Columns, error) {
	path := "/api/v1/columns"
	if station != "" {
		path += "?station=" + station
	}

	var cols kds.Columns
	if err := c.getJSON(path, &cols); err != nil {
		return nil, err
	}
	return &cols, nil
}

// GetCompleted retrieves the recall archive
func (c *ApiClient) GetCompleted() ([]models.CompletedOrder, error) {
	var completed []models.CompletedOrder
	if err := c.getJSON("/api/v1/completed", &completed); err != nil {
		return nil, err
	}
	return completed, nil
}

// GetBatches retrieves batch suggestions for a station
func (c *ApiClient) GetBatches(station string) ([]models.BatchSuggestion, error) {
	path := "/api/v1/batches"
	if station != "" {
		path += "?station=" + station
	}

	var batches []models.BatchSuggestion
	if err := c.getJSON(path, &batches); err != nil {
		return nil, err
	}
	return batches, nil
}

// GetStock retrieves the 86 board
func (c *ApiClient) GetStock() ([]models.StockStatus, error) {
	var stock []models.StockStatus
	if err := c.getJSON("/api/v1/stock", &stock); err != nil {
		return nil, err
	}
	return stock, nil
}

// GetToasts retrieves the active notification toasts
func (c *ApiClient) GetToasts() ([]notify.Toast, error) {
	var toasts []notify.Toast
	if err := c.getJSON("/api/v1/toasts", &toasts); err != nil {
		return nil, err
	}
	return toasts, nil
}

// AdvanceStation moves one station of an order to the given status
func (c *ApiClient) AdvanceStation(orderID, stationID string, status models.StationStatus) error {
	return c.postJSON(fmt.Sprintf("/api/v1/orders/%s/advance", orderID), map[string]interface{}{
		"stationId": stationID,
		"status":    status,
	})
}

// Recall pulls a completed order back onto the board
func (c *ApiClient) Recall(orderID string) error {
	return c.postJSON(fmt.Sprintf("/api/v1/completed/%s/recall", orderID), map[string]string{})
}

// Snooze defers an order for the given number of minutes
func (c *ApiClient) Snooze(orderID string, minutes int) error {
	return c.postJSON(fmt.Sprintf("/api/v1/orders/%s/snooze", orderID), map[string]int{
		"minutes": minutes,
	})
}

// WakeUp ends a snooze early
func (c *ApiClient) WakeUp(orderID string) error {
	return c.postJSON(fmt.Sprintf("/api/v1/orders/%s/wake", orderID), map[string]string{})
}
