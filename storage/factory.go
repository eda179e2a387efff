package storage

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/anoixa/image-share/config"
	"github.com/anoixa/image-share/storage/local"
	"github.com/mitchellh/mapstructure"
)

// LocalConfig 本地存储配置结构
type LocalConfig struct {
	BasePath string `mapstructure:"base_path"`
}

// NewProvider builds the configured storage provider. A nil provider means
// "database": image bytes stay inline in the image row.
//
// Provider settings come from STORAGE_CONFIG, a JSON object decoded into the
// provider's typed config with mapstructure.
func NewProvider(cfg *config.Config, settingsJSON string) (Provider, error) {
	switch cfg.StorageType {
	case "", "database":
		return nil, nil

	case "local":
		settings := LocalConfig{BasePath: "./data/images"}
		if err := decodeSettings(settingsJSON, &settings); err != nil {
			return nil, err
		}
		provider, err := local.NewStorage(settings.BasePath)
		if err != nil {
			return nil, err
		}
		log.Printf("Using local blob storage: %s", settings.BasePath)
		return provider, nil

	case "minio":
		var settings MinioConfig
		if err := decodeSettings(settingsJSON, &settings); err != nil {
			return nil, err
		}
		provider, err := newMinioStorage(settings)
		if err != nil {
			return nil, err
		}
		log.Printf("Using minio blob storage: %s/%s", settings.Endpoint, settings.BucketName)
		return provider, nil

	case "webdav":
		var settings WebDAVConfig
		if err := decodeSettings(settingsJSON, &settings); err != nil {
			return nil, err
		}
		provider, err := newWebDAVStorage(settings)
		if err != nil {
			return nil, err
		}
		log.Printf("Using webdav blob storage: %s", settings.URL)
		return provider, nil

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}

// decodeSettings 解析 JSON 配置并解码到目标结构
func decodeSettings(settingsJSON string, dest interface{}) error {
	if settingsJSON == "" {
		return nil
	}

	var settingsMap map[string]interface{}
	if err := json.Unmarshal([]byte(settingsJSON), &settingsMap); err != nil {
		return fmt.Errorf("invalid storage settings JSON: %w", err)
	}

	if err := mapstructure.Decode(settingsMap, dest); err != nil {
		return fmt.Errorf("failed to decode storage settings: %w", err)
	}

	return nil
}
