package blobstore

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Schemes understood by ParseURL.
const (
	SchemeS3    = "s3"
	SchemeMinio = "minio"
	SchemeFile  = "file"
)

// ErrInvalidURL is returned by ParseURL for locations it cannot address.
var ErrInvalidURL = errors.New("blobstore: invalid location")

// Location addresses one blob (or, with an empty Key or a trailing slash, a
// prefix).
type Location struct {
	Scheme string
	// Endpoint is host[:port] for minio locations.
	Endpoint string
	// Bucket is empty for file locations.
	Bucket string
	// Key is the object key, or the file path for file locations.
	Key string
}

// ParseURL parses s3://bucket/key, minio://endpoint/bucket/key and
// file:///path locations. A string without a scheme is a file path.
func ParseURL(raw string) (Location, error) {
	if !strings.Contains(raw, "://") {
		if raw == "" {
			return Location{}, fmt.Errorf("%w: empty", ErrInvalidURL)
		}
		return Location{Scheme: SchemeFile, Key: raw}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	switch u.Scheme {
	case SchemeS3:
		if u.Host == "" {
			return Location{}, fmt.Errorf("%w: %s: missing bucket", ErrInvalidURL, raw)
		}
		return Location{Scheme: SchemeS3, Bucket: u.Host, Key: strings.TrimPrefix(u.Path, "/")}, nil
	case SchemeMinio:
		bucket, key, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		if u.Host == "" || bucket == "" {
			return Location{}, fmt.Errorf("%w: %s: want minio://endpoint/bucket/key", ErrInvalidURL, raw)
		}
		return Location{Scheme: SchemeMinio, Endpoint: u.Host, Bucket: bucket, Key: key}, nil
	case SchemeFile:
		if u.Path == "" {
			return Location{}, fmt.Errorf("%w: %s: missing path", ErrInvalidURL, raw)
		}
		return Location{Scheme: SchemeFile, Key: u.Path}, nil
	default:
		return Location{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
}

// String formats l back into URL form.
func (l Location) String() string {
	switch l.Scheme {
	case SchemeS3:
		return "s3://" + path.Join(l.Bucket, l.Key)
	case SchemeMinio:
		return "minio://" + path.Join(l.Endpoint, l.Bucket, l.Key)
	default:
		return l.Key
	}
}

// IsPrefix reports whether l names a prefix rather than a single object.
func (l Location) IsPrefix() bool {
	return l.Key == "" || strings.HasSuffix(l.Key, "/")
}

// Join returns l with name appended to its key.
func (l Location) Join(name string) Location {
	if l.Scheme == SchemeFile {
		l.Key = path.Join(l.Key, name)
		return l
	}
	l.Key = strings.TrimPrefix(path.Join(l.Key, name), "/")
	return l
}

// Base returns the last element of the key.
func (l Location) Base() string {
	return path.Base(strings.TrimSuffix(l.Key, "/"))
}
