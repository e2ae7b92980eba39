package orderedmap

// MultiMap мультимапа, сохраняющая порядок первого появления ключей
type MultiMap[K comparable, V any] struct {
	keys   []K
	values map[K][]V
}

func NewMultiMap[K comparable, V any]() *MultiMap[K, V] {
	return &MultiMap[K, V]{values: make(map[K][]V)}
}

// Add добавляет значение к ключу
func (m *MultiMap[K, V]) Add(key K, value V) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = append(m.values[key], value)
}

// Get возвращает значения ключа в порядке добавления
func (m *MultiMap[K, V]) Get(key K) []V {
	return m.values[key]
}

// Keys возвращает ключи в порядке первого добавления
func (m *MultiMap[K, V]) Keys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *MultiMap[K, V]) Len() int {
	return len(m.keys)
}

// Each обходит ключи в порядке добавления
func (m *MultiMap[K, V]) Each(fn func(key K, values []V)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// GroupBy строит мультимапу из среза по ключу
func GroupBy[K comparable, V any](items []V, key func(V) K) *MultiMap[K, V] {
	m := NewMultiMap[K, V]()
	for _, item := range items {
		m.Add(key(item), item)
	}
	return m
}
