package main

import (
	"encoding/csv"
	"log"
	"os"
	"strconv"

	"github.com/klauspost/compress/gzip"
	"github.com/segmentio/parquet-go"
)

type Trade struct {
	Stock    string  `parquet:"stock"`
	Price    float64 `parquet:"price"`
	Size     int64   `parquet:"size"`
	Executed bool    `parquet:"executed"`
	Venue    string  `parquet:"venue"`
}

var trades = []Trade{
	{Stock: "VOD.L", Price: 101.5, Size: 300, Executed: true, Venue: "LSE"},
	{Stock: "BP.L", Price: 4.2, Size: 1000, Executed: false, Venue: "LSE"},
	{Stock: "RR.L", Price: 250, Size: 20, Executed: true, Venue: "CHIX"},
	{Stock: "HSBA.L", Price: 6.45, Size: 5000, Executed: true, Venue: "BATS"},
	{Stock: "AZN.L", Price: 11250, Size: 3, Executed: false, Venue: "LSE"},
}

func writeParquet(path string) {
	file, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[Trade](file)
	if _, err := writer.Write(trades); err != nil {
		log.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		log.Fatal(err)
	}
}

func writeCSV(path string, compress bool) {
	file, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	var w *csv.Writer
	if compress {
		zw := gzip.NewWriter(file)
		defer zw.Close()
		w = csv.NewWriter(zw)
	} else {
		w = csv.NewWriter(file)
	}

	_ = w.Write([]string{"stock[string]", "price[float]", "size[int]", "executed[bool]", "venue[string]"})
	for _, t := range trades {
		_ = w.Write([]string{
			t.Stock,
			strconv.FormatFloat(t.Price, 'f', -1, 64),
			strconv.FormatInt(t.Size, 10),
			strconv.FormatBool(t.Executed),
			t.Venue,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatal(err)
	}
}

func main() {
	writeParquet("trades.parquet")
	writeCSV("trades.csv", false)
	writeCSV("trades.csv.gz", true)

	log.Printf("Generated trades.parquet, trades.csv and trades.csv.gz with %d trades", len(trades))
}
