package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/notargets/gofem/model_problems/Poisson"
)

var (
	csvFile string
)

/*
convOrder fits observed convergence rates from a CSV file of the form

	Title, Order, N, L2Error

with one header line. Rows sharing a title and order form one study.
*/
func main() {
	csvFilePtr := flag.String("csvFile", csvFile, "file containing entries of a convergence study")
	flag.Parse()
	csvFile = *csvFilePtr
	if len(csvFile) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	fmt.Printf("Input file: %v\n", csvFile)
	f, err := os.Open(csvFile)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	defer f.Close()
	studies, err := readCSV(bufio.NewReader(f))
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	for _, cs := range studies {
		fmt.Printf("Title = %s, ", cs.title)
		Poisson.PrintStudies(os.Stdout, []Poisson.Study{cs.Study})
	}
}

type ConvergenceStudy struct {
	title string
	Poisson.Study
}

func (cs *ConvergenceStudy) Add(N int, l2Error float64) {
	cs.Ns = append(cs.Ns, N)
	cs.Errors = append(cs.Errors, l2Error)
}

// readCSV returns the studies sorted by title then order, each with its rate fitted
func readCSV(r io.Reader) (studies []*ConvergenceStudy, err error) {
	var (
		records [][]string
		byKey   = make(map[string]*ConvergenceStudy)
	)
	if records, err = csv.NewReader(r).ReadAll(); err != nil {
		return
	}
	for i, rec := range records {
		if i == 0 {
			continue
		}
		if len(rec) < 4 {
			err = fmt.Errorf("line %d: need 4 fields, have %d", i+1, len(rec))
			return
		}
		var (
			order, N int
			l2Error  float64
		)
		if order, err = strconv.Atoi(rec[1]); err != nil {
			return
		}
		if N, err = strconv.Atoi(rec[2]); err != nil {
			return
		}
		if l2Error, err = strconv.ParseFloat(rec[3], 64); err != nil {
			return
		}
		key := rec[0] + "/" + rec[1]
		cs, ok := byKey[key]
		if !ok {
			cs = &ConvergenceStudy{title: rec[0], Study: Poisson.Study{Order: order}}
			byKey[key] = cs
			studies = append(studies, cs)
		}
		cs.Add(N, l2Error)
	}
	sort.Slice(studies, func(i, j int) bool {
		if studies[i].title != studies[j].title {
			return studies[i].title < studies[j].title
		}
		return studies[i].Order < studies[j].Order
	})
	for _, cs := range studies {
		if len(cs.Ns) < 2 {
			err = fmt.Errorf("%s order %d has a single sample, a rate needs two", cs.title, cs.Order)
			return
		}
		cs.Rate = Poisson.FitRate(cs.Ns, cs.Errors)
	}
	return
}
