package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrNotFound is returned when a post, comment or tag does not exist.
var ErrNotFound = errors.New("record not found")

const (
	// Key prefixes for different entity types
	PostKeyPrefix      = "post:"
	PostIndexPrefix    = "postidx:"
	CommentKeyPrefix   = "comment:"
	TagKeyPrefix       = "tag:"
	TagSlugPrefix      = "tagslug:"
	PostTagPrefix      = "posttag:"
	TagOfPostPrefix    = "tagofpost:"
	ProfileKeyPrefix   = "profile:"
	keyFieldSeparator  = ":"
	timeKeyDigitsWidth = 20
)

func postKey(id string) []byte { return []byte(PostKeyPrefix + id) }

// postIndexKey orders published posts newest first under a prefix scan.
func postIndexKey(createdAt time.Time, id string) []byte {
	inverted := math.MaxInt64 - createdAt.UnixNano()
	return []byte(fmt.Sprintf("%s%0*d%s%s", PostIndexPrefix, timeKeyDigitsWidth, inverted, keyFieldSeparator, id))
}

// commentKey keeps a post's comments together, oldest first.
func commentKey(postID string, createdAt time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%s%s:%0*d:%s", CommentKeyPrefix, postID, timeKeyDigitsWidth, createdAt.UnixNano(), id))
}

func commentPrefix(postID string) []byte {
	return []byte(CommentKeyPrefix + postID + keyFieldSeparator)
}

func tagKey(id string) []byte       { return []byte(TagKeyPrefix + id) }
func tagSlugKey(slug string) []byte { return []byte(TagSlugPrefix + slug) }
func profileKey(id string) []byte   { return []byte(ProfileKeyPrefix + id) }

func postTagKey(tagID, postID string) []byte {
	return []byte(PostTagPrefix + tagID + keyFieldSeparator + postID)
}

func postTagPrefix(tagID string) []byte {
	return []byte(PostTagPrefix + tagID + keyFieldSeparator)
}

func tagOfPostKey(postID, tagID string) []byte {
	return []byte(TagOfPostPrefix + postID + keyFieldSeparator + tagID)
}

func tagOfPostPrefix(postID string) []byte {
	return []byte(TagOfPostPrefix + postID + keyFieldSeparator)
}

// lastField returns the part of key after its final separator.
func lastField(key []byte) string {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == ':' {
			return string(key[i+1:])
		}
	}
	return string(key)
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}
