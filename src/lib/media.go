package lib

import (
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"time"

	"standup/src/config"
	"standup/src/types"

	awslib "standup/src/lib/aws"
)

// MediaStore persists uploaded standup attachments and returns the stored
// file name plus the URL the file is retrieved from. Binary content never
// lands in the database.
type MediaStore interface {
	Name() string
	Save(originalName, contentType string, body io.Reader) (fileName string, fileURL string, err error)
}

// LocalStore writes under the public uploads dir, keyed by upload timestamp
// plus original filename, served back via the rewritten /uploads URL.
type LocalStore struct {
	Dir string
}

func (LocalStore) Name() string { return "Local" }

func (l LocalStore) Save(originalName, contentType string, body io.Reader) (string, string, error) {
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return "", "", err
	}
	fileName := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), originalName)
	filePath := path.Join(l.Dir, fileName)
	file, err := os.Create(filePath)
	if err != nil {
		return "", "", err
	}
	defer file.Close()
	if _, err := io.Copy(file, body); err != nil {
		return "", "", err
	}
	return fileName, fmt.Sprintf("/uploads/%s", fileName), nil
}

type S3Store struct{}

func (S3Store) Name() string { return "S3" }

func (S3Store) Save(originalName, contentType string, body io.Reader) (string, string, error) {
	key := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), originalName)
	url, err := awslib.S3UploadMedia(key, contentType, body)
	if err != nil {
		return "", "", err
	}
	return key, *url, nil
}

// CreateMediaStore returns the S3 store in production and the local public
// uploads dir otherwise.
func CreateMediaStore() MediaStore {
	env := config.API_ENV
	if env == string(types.Production) {
		return S3Store{}
	}
	dir := config.UPLOAD_DIR
	if dir == "" {
		dir = path.Join("public", "uploads")
	}
	s := LocalStore{Dir: dir}
	log.Printf("Created media store with name: %s\n", s.Name())
	return s
}
