package storage

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// AzureSource reads artifacts from a blob container
type AzureSource struct {
	client    *azblob.Client
	container string
	maxSize   int64
}

// NewAzureSource connects to accountName with a shared key
func NewAzureSource(accountName, accountKey, container string) (*AzureSource, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid azure credentials: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net/", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure client: %w", err)
	}

	return newAzureSource(client, container), nil
}

func newAzureSource(client *azblob.Client, container string) *AzureSource {
	return &AzureSource{client: client, container: container, maxSize: DefaultMaxArtifactSize}
}

// Describe names the container for log lines
func (s *AzureSource) Describe() string {
	return "azure:" + s.container
}

// Fetch downloads the blob called name from the container
func (s *AzureSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	resp, err := s.client.DownloadStream(ctx, s.container, name, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", ErrArtifactNotFound, s.container, name)
		}
		return nil, fmt.Errorf("download failed: %w", err)
	}
	body := resp.Body
	defer body.Close()

	return readLimited(body, s.maxSize)
}
