package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/ports/driven"
)

func TestConfigStore_InterfaceCompliance(t *testing.T) {
	var _ driven.ConfigStore = NewConfigStore()
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("index.backend", "memory"))

	val, ok := store.Get("index.backend")
	assert.True(t, ok)
	assert.Equal(t, "memory", val)

	_, ok = store.Get("index.dsn")
	assert.False(t, ok)
}

func TestConfigStore_GetString(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("llm.model", "llama3.2")
	_ = store.Set("splitter.chunk_size", 800)

	assert.Equal(t, "llama3.2", store.GetString("llm.model"))
	assert.Equal(t, "", store.GetString("splitter.chunk_size"), "wrong type reads as empty")
	assert.Equal(t, "", store.GetString("missing"))
}

func TestConfigStore_GetInt(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("int", 800)
	_ = store.Set("int64", int64(80))
	_ = store.Set("float", float64(5))
	_ = store.Set("string", "12")

	assert.Equal(t, 800, store.GetInt("int"))
	assert.Equal(t, 80, store.GetInt("int64"))
	assert.Equal(t, 5, store.GetInt("float"))
	assert.Equal(t, 0, store.GetInt("string"))
	assert.Equal(t, 0, store.GetInt("missing"))
}

func TestConfigStore_GetFloat(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("rate", 2.5)
	_ = store.Set("int", 3)
	_ = store.Set("int64", int64(4))
	_ = store.Set("string", "1.5")

	assert.InDelta(t, 2.5, store.GetFloat("rate"), 1e-9)
	assert.InDelta(t, 3.0, store.GetFloat("int"), 1e-9)
	assert.InDelta(t, 4.0, store.GetFloat("int64"), 1e-9)
	assert.Zero(t, store.GetFloat("string"))
	assert.Zero(t, store.GetFloat("missing"))
}

func TestConfigStore_GetBool(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("enabled", true)
	_ = store.Set("string", "true")

	assert.True(t, store.GetBool("enabled"))
	assert.False(t, store.GetBool("string"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_SaveLoadAreNoOps(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("k", "v")

	require.NoError(t, store.Save())
	require.NoError(t, store.Load())
	assert.Equal(t, "v", store.GetString("k"))
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", id)
			_ = store.Set(key, id)
			_ = store.GetInt(key)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		assert.Equal(t, i, store.GetInt(fmt.Sprintf("key-%d", i)))
	}
}
