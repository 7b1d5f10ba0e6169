package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PutTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "htable_put_total",
		Help: "Total number of successful put operations",
	})

	GetTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "htable_get_total",
		Help: "Total number of get operations by outcome",
	}, []string{"outcome"})

	InvalidKeyTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "htable_invalid_key_total",
		Help: "Total number of operations rejected by key validation",
	})

	ResizeTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "htable_resize_total",
		Help: "Total number of table resizes across all shards",
	})

	ItemCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "htable_items",
		Help: "Live key/value pairs across all shards",
	})

	CapacitySlots = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "htable_capacity_slots",
		Help: "Backing-array slots summed across all shards",
	})

	BloomSkipTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "htable_bloom_skipped_lookups_total",
		Help: "Lookups answered by the bloom filter without probing a shard",
	})
)

func init() {
	prometheus.MustRegister(PutTotal)
	prometheus.MustRegister(GetTotal)
	prometheus.MustRegister(InvalidKeyTotal)
	prometheus.MustRegister(ResizeTotal)
	prometheus.MustRegister(ItemCount)
	prometheus.MustRegister(CapacitySlots)
	prometheus.MustRegister(BloomSkipTotal)
}

func IncPut() {
	PutTotal.Inc()
}

func IncGet(hit bool) {
	if hit {
		GetTotal.WithLabelValues("hit").Inc()
	} else {
		GetTotal.WithLabelValues("miss").Inc()
	}
}

func IncInvalidKey() {
	InvalidKeyTotal.Inc()
}

func IncResize() {
	ResizeTotal.Inc()
}

func SetItems(n int) {
	ItemCount.Set(float64(n))
}

func SetCapacitySlots(n int) {
	CapacitySlots.Set(float64(n))
}

func IncBloomSkip() {
	BloomSkipTotal.Inc()
}
