package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"jetlag-advisor/internal/domain/entity"
	"jetlag-advisor/internal/domain/repository"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"
)

// Well-known emulator key (public, safe to hardcode)
// See: https://learn.microsoft.com/en-us/azure/cosmos-db/emulator-linux
const cosmosEmulatorKey = "C2y6yDjf5/R+ob0N8A7Cgv30VRDJIWEHLM+4QDU5DE2nQ9nDuVTqobD4b8mGGyPMbIZnqyMsEcaGQy67XIw/Jw=="

// cosmosDocument is a named blob stored as one item; the name is both id and partition key.
type cosmosDocument struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Content   json.RawMessage `json:"content,omitempty"`
	Raw       string          `json:"raw,omitempty"`
	UpdatedAt string          `json:"updatedAt"`
}

// CosmosBlobStore implements BlobStore on an Azure Cosmos DB container partitioned by /name.
type CosmosBlobStore struct {
	container *azcosmos.ContainerClient
}

// NewCosmosBlobStore connects to an existing database/container. With useEmulator it uses the
// emulator key, otherwise DefaultAzureCredential.
func NewCosmosBlobStore(endpoint, database, container string, useEmulator bool) (repository.BlobStore, error) {
	var client *azcosmos.Client
	var err error

	if useEmulator {
		keyCred, keyErr := azcosmos.NewKeyCredential(cosmosEmulatorKey)
		if keyErr != nil {
			return nil, fmt.Errorf("failed to create key credential: %w", keyErr)
		}
		client, err = azcosmos.NewClientWithKey(endpoint, keyCred, nil)
	} else {
		cred, credErr := azidentity.NewDefaultAzureCredential(nil)
		if credErr != nil {
			return nil, fmt.Errorf("failed to create credential: %w", credErr)
		}
		client, err = azcosmos.NewClient(endpoint, cred, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create Cosmos client: %w", err)
	}

	containerClient, err := client.NewContainer(database, container)
	if err != nil {
		return nil, fmt.Errorf("failed to get container client: %w", err)
	}
	return &CosmosBlobStore{container: containerClient}, nil
}

// Get reads the item named name.
func (s *CosmosBlobStore) Get(ctx context.Context, name string) ([]byte, error) {
	pk := azcosmos.NewPartitionKeyString(name)
	resp, err := s.container.ReadItem(ctx, pk, name, nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("store %q: %w", name, entity.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read store %q: %w", name, err)
	}

	var doc cosmosDocument
	if err := json.Unmarshal(resp.Value, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode store %q: %w", name, err)
	}
	if doc.Raw != "" {
		return []byte(doc.Raw), nil
	}
	return doc.Content, nil
}

// Put upserts the item named name. Content that is not valid JSON is kept verbatim in raw.
func (s *CosmosBlobStore) Put(ctx context.Context, name string, data []byte) error {
	doc := cosmosDocument{
		ID:        name,
		Name:      name,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if json.Valid(data) {
		doc.Content = json.RawMessage(data)
	} else {
		doc.Raw = string(data)
	}

	item, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode store %q: %w", name, err)
	}

	pk := azcosmos.NewPartitionKeyString(name)
	if _, err := s.container.UpsertItem(ctx, pk, item, nil); err != nil {
		return fmt.Errorf("failed to write store %q: %w", name, err)
	}
	return nil
}
