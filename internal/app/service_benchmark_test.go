package app

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/awmpietro/golang-vcd-transaction-case/internal/config"
	"github.com/awmpietro/golang-vcd-transaction-case/internal/config/cache"
)

func benchTrace(cycles int) string {
	var b strings.Builder
	b.WriteString("$scope module tb $end\n$var wire 1 c i_clk $end\n$var wire 1 r i_reset_n $end\n$var wire 1 v valid $end\n$var wire 16 d data $end\n$upscope $end\n$enddefinitions $end\n")
	b.WriteString("#0\n0c\n0r\n0v\nb0 d\n#1\n1r\n")
	for i := 0; i < cycles; i++ {
		t := 10 * (i + 1)
		fmt.Fprintf(&b, "#%d\n1c\n%dv\nb%b d\n#%d\n0c\n", t, i%2, i&0xffff, t+5)
	}
	return b.String()
}

func BenchmarkServiceExtract(b *testing.B) {
	svc := NewService(config.ParseInterfacesBytes, cache.NewInMemory(16))
	trace := benchTrace(2000)

	if _, err := svc.Extract(context.Background(), ExtractRequest{ConfigYAML: testConfig, Trace: trace}); err != nil {
		b.Fatalf("warmup extract failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		res, err := svc.Extract(context.Background(), ExtractRequest{ConfigYAML: testConfig, Trace: trace})
		if err != nil {
			b.Fatalf("extract failed: %v", err)
		}
		if len(res.Records) != 1000 {
			b.Fatalf("expected 1000 records, got %d", len(res.Records))
		}
	}
}

func BenchmarkServiceExtractParallel(b *testing.B) {
	svc := NewService(config.ParseInterfacesBytes, cache.NewInMemory(16))
	trace := benchTrace(500)

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := svc.Extract(context.Background(), ExtractRequest{ConfigYAML: testConfig, Trace: trace}); err != nil {
				b.Fatalf("extract failed: %v", err)
			}
		}
	})
}
