package search

import (
	"encoding/json"
	"fmt"

	"rental-portal/internal/models"

	"github.com/meilisearch/meilisearch-go"
)

// Client indexes published properties so tenants can browse them with
// free-text queries. Indexing happens at publish time and via the admin
// reindex endpoint.
type Client struct {
	client *meilisearch.Client
	index  string
}

func NewClient(host, apiKey string) *Client {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	return &Client{
		client: client,
		index:  "properties",
	}
}

// InitIndex initializes the Meilisearch index
func (c *Client) InitIndex() error {
	_, err := c.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        c.index,
		PrimaryKey: "id",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	_, err = c.client.Index(c.index).UpdateSearchableAttributes(&[]string{
		"title",
		"address",
		"locationCode",
		"ownerLoginId",
	})
	if err != nil {
		return err
	}

	_, err = c.client.Index(c.index).UpdateFilterableAttributes(&[]string{
		"id",
		"locationCode",
		"status",
		"isPublished",
	})
	if err != nil {
		return err
	}

	_, err = c.client.Index(c.index).UpdateSortableAttributes(&[]string{
		"createdAt",
	})
	return err
}

// IndexProperty indexes a single property
func (c *Client) IndexProperty(property *models.Property) error {
	_, err := c.client.Index(c.index).AddDocuments([]models.Property{*property})
	return err
}

// IndexProperties indexes multiple properties
func (c *Client) IndexProperties(properties []models.Property) error {
	if len(properties) == 0 {
		return nil
	}
	_, err := c.client.Index(c.index).AddDocuments(properties)
	return err
}

// publishedFilter builds the filter expressions for a browse query. Array
// elements combine with AND; the location code is quoted so embedded quotes
// cannot alter the expression.
func publishedFilter(locationCode string) []string {
	filter := []string{"isPublished = true"}
	if locationCode != "" {
		filter = append(filter, fmt.Sprintf("locationCode = %q", locationCode))
	}
	return filter
}

// Search returns published properties matching the query, optionally scoped
// to one location code.
func (c *Client) Search(query, locationCode string, limit int64) ([]models.Property, error) {
	if limit <= 0 {
		limit = 20
	}

	searchRes, err := c.client.Index(c.index).Search(query, &meilisearch.SearchRequest{
		Limit:  limit,
		Filter: publishedFilter(locationCode),
	})
	if err != nil {
		return nil, err
	}

	// Convert hits back to Property structs via JSON
	var properties []models.Property
	for _, hit := range searchRes.Hits {
		hitJSON, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var property models.Property
		if err := json.Unmarshal(hitJSON, &property); err != nil {
			continue
		}
		properties = append(properties, property)
	}

	return properties, nil
}
