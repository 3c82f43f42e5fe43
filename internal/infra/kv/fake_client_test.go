//go:build unit

package kv_test

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// fakeClient is an in-memory stand-in for the backing key-value store. It
// implements just enough redis semantics for the cache and queue tests:
// glob SCAN, list rotation, scored sets and hash fields. Single-process only.
type fakeClient struct {
	mu sync.Mutex

	strings map[string]string
	hashes  map[string]map[string]string
	lists   map[string][]string
	zsets   map[string]map[string]float64
	ttls    map[string]time.Duration

	published []publishedMessage

	// failOn forces the named command to fail, for fail-open tests.
	failOn map[string]error
}

type publishedMessage struct {
	channel string
	payload string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		strings: make(map[string]string),
		hashes:  make(map[string]map[string]string),
		lists:   make(map[string][]string),
		zsets:   make(map[string]map[string]float64),
		ttls:    make(map[string]time.Duration),
		failOn:  make(map[string]error),
	}
}

func (f *fakeClient) fail(cmd string) error {
	return f.failOn[cmd]
}

func (f *fakeClient) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("get"); err != nil {
		return redis.NewStringResult("", err)
	}
	val, ok := f.strings[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (f *fakeClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("set"); err != nil {
		return redis.NewStatusResult("", err)
	}
	f.strings[key] = toString(value)
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("del"); err != nil {
		return redis.NewIntResult(0, err)
	}
	var n int64
	for _, key := range keys {
		if _, ok := f.strings[key]; ok {
			delete(f.strings, key)
			n++
		}
		if _, ok := f.hashes[key]; ok {
			delete(f.hashes, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeClient) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("exists"); err != nil {
		return redis.NewIntResult(0, err)
	}
	var n int64
	for _, key := range keys {
		if _, ok := f.strings[key]; ok {
			n++
		} else if _, ok := f.hashes[key]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeClient) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("expire"); err != nil {
		return redis.NewBoolResult(false, err)
	}
	f.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (f *fakeClient) Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("scan"); err != nil {
		return redis.NewScanCmdResult(nil, 0, err)
	}
	var keys []string
	for key := range f.strings {
		if ok, _ := path.Match(match, key); ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return redis.NewScanCmdResult(keys, 0, nil)
}

func (f *fakeClient) LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("lpush"); err != nil {
		return redis.NewIntResult(0, err)
	}
	for _, v := range values {
		f.lists[key] = append([]string{toString(v)}, f.lists[key]...)
	}
	return redis.NewIntResult(int64(len(f.lists[key])), nil)
}

func (f *fakeClient) BLMove(ctx context.Context, source, destination, srcpos, destpos string, timeout time.Duration) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("blmove"); err != nil {
		return redis.NewStringResult("", err)
	}
	src := f.lists[source]
	if len(src) == 0 {
		return redis.NewStringResult("", redis.Nil)
	}
	// RIGHT/LEFT is the only rotation the queue uses.
	val := src[len(src)-1]
	f.lists[source] = src[:len(src)-1]
	f.lists[destination] = append([]string{val}, f.lists[destination]...)
	return redis.NewStringResult(val, nil)
}

func (f *fakeClient) LRem(ctx context.Context, key string, count int64, value interface{}) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("lrem"); err != nil {
		return redis.NewIntResult(0, err)
	}
	target := toString(value)
	var removed int64
	kept := f.lists[key][:0]
	for _, v := range f.lists[key] {
		if v == target && (count == 0 || removed < count) {
			removed++
			continue
		}
		kept = append(kept, v)
	}
	f.lists[key] = kept
	return redis.NewIntResult(removed, nil)
}

func (f *fakeClient) LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("lrange"); err != nil {
		return redis.NewStringSliceResult(nil, err)
	}
	// Only the full-range form is used.
	out := make([]string, len(f.lists[key]))
	copy(out, f.lists[key])
	return redis.NewStringSliceResult(out, nil)
}

func (f *fakeClient) ZAdd(ctx context.Context, key string, members ...redis.Z) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("zadd"); err != nil {
		return redis.NewIntResult(0, err)
	}
	if f.zsets[key] == nil {
		f.zsets[key] = make(map[string]float64)
	}
	var added int64
	for _, m := range members {
		member := toString(m.Member)
		if _, ok := f.zsets[key][member]; !ok {
			added++
		}
		f.zsets[key][member] = m.Score
	}
	return redis.NewIntResult(added, nil)
}

func (f *fakeClient) ZRangeByScore(ctx context.Context, key string, opt *redis.ZRangeBy) *redis.StringSliceCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("zrangebyscore"); err != nil {
		return redis.NewStringSliceResult(nil, err)
	}
	max, err := strconv.ParseFloat(opt.Max, 64)
	if err != nil {
		return redis.NewStringSliceResult(nil, err)
	}
	type entry struct {
		member string
		score  float64
	}
	var due []entry
	for member, score := range f.zsets[key] {
		if score <= max {
			due = append(due, entry{member, score})
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].score < due[j].score })
	out := make([]string, 0, len(due))
	for _, e := range due {
		out = append(out, e.member)
	}
	return redis.NewStringSliceResult(out, nil)
}

func (f *fakeClient) ZRem(ctx context.Context, key string, members ...interface{}) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("zrem"); err != nil {
		return redis.NewIntResult(0, err)
	}
	var removed int64
	for _, m := range members {
		member := toString(m)
		if _, ok := f.zsets[key][member]; ok {
			delete(f.zsets[key], member)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

func (f *fakeClient) HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("hset"); err != nil {
		return redis.NewIntResult(0, err)
	}
	if f.hashes[key] == nil {
		f.hashes[key] = make(map[string]string)
	}
	for i := 0; i+1 < len(values); i += 2 {
		f.hashes[key][toString(values[i])] = toString(values[i+1])
	}
	return redis.NewIntResult(int64(len(values) / 2), nil)
}

func (f *fakeClient) HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("hgetall"); err != nil {
		return redis.NewMapStringStringResult(nil, err)
	}
	out := make(map[string]string, len(f.hashes[key]))
	for k, v := range f.hashes[key] {
		out[k] = v
	}
	return redis.NewMapStringStringResult(out, nil)
}

func (f *fakeClient) HIncrBy(ctx context.Context, key, field string, incr int64) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("hincrby"); err != nil {
		return redis.NewIntResult(0, err)
	}
	if f.hashes[key] == nil {
		f.hashes[key] = make(map[string]string)
	}
	current, _ := strconv.ParseInt(f.hashes[key][field], 10, 64)
	current += incr
	f.hashes[key][field] = strconv.FormatInt(current, 10)
	return redis.NewIntResult(current, nil)
}

func (f *fakeClient) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("publish"); err != nil {
		return redis.NewIntResult(0, err)
	}
	f.published = append(f.published, publishedMessage{channel: channel, payload: toString(message)})
	return redis.NewIntResult(1, nil)
}

func (f *fakeClient) ttlOf(key string) (time.Duration, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ttl, ok := f.ttls[key]
	return ttl, ok
}

func (f *fakeClient) listValues(key string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.lists[key]))
	copy(out, f.lists[key])
	return out
}

func (f *fakeClient) hashValue(key, field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hashes[key][field]
}

func (f *fakeClient) zsetScore(key, member string) (float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	score, ok := f.zsets[key][member]
	return score, ok
}

func toString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}
