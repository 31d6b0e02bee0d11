package storage

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"testing"

	"arbScope/internal/model"
)

func TestJsonlSinkAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opps.jsonl")
	sink := NewJsonlSink(path)

	first := []model.ArbitrageOpportunity{
		{RouteID: "quickswap_2hop", Tokens: []string{"USDC", "USDT", "USDC"}, ProfitUSD: 1.5},
	}
	second := []model.ArbitrageOpportunity{
		{RouteID: "quickswap_sushiswap_3hop", Tokens: []string{"USDC", "WETH", "USDT", "USDC"}, ProfitUSD: 0.7},
		{RouteID: "sushiswap_2hop", Tokens: []string{"WETH", "USDC", "WETH"}, ProfitUSD: 0.2},
	}

	if err := sink.PutOpportunities(context.Background(), first); err != nil {
		t.Fatalf("first put failed: %v", err)
	}
	if err := sink.PutOpportunities(context.Background(), second); err != nil {
		t.Fatalf("second put failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer file.Close()

	lines := 0
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		lines++
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("read output: %v", err)
	}
	if lines != 3 {
		t.Fatalf("expected 3 lines after two appends, got %d", lines)
	}
}

func TestJsonlSinkEmptyBatchWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opps.jsonl")
	sink := NewJsonlSink(path)

	if err := sink.PutOpportunities(context.Background(), nil); err != nil {
		t.Fatalf("empty put failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("empty batch should not create the file")
	}
}
