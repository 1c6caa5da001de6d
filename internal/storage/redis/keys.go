package redis

import "github.com/mcoot/wordrush/internal/model"

const keyPrefix = "wordrush"

// resultKey holds one archived round as JSON
func resultKey(id model.SessionID) string {
	return keyPrefix + ":result:" + string(id)
}

// resultIndexKey is a sorted set of archived session ids scored by end time in ms
func resultIndexKey() string {
	return keyPrefix + ":results"
}

// dictionaryKey holds the word list as a set
func dictionaryKey() string {
	return keyPrefix + ":dictionary"
}
