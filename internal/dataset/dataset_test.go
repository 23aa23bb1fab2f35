package dataset_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MichalMitros/az-phone-market/internal/dataset"
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/MichalMitros/az-phone-market/internal/platform/models/modelstesting"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unifiedHeader = "source,product_id,name,brand,price_current,price_original,discount_amt,discount_pct," +
	"currency,installment_6m,installment_12m,installment_18m,in_stock,url,image"

func TestUnitWriteListings(t *testing.T) {
	ds := models.Dataset{
		modelstesting.FakeListing(func(l *models.Listing) {
			l.Source = "irshad"
			l.ProductID = "5"
			l.Name = `Xiaomi Redmi Note 13, 8/256 "Black"`
			l.Brand = lo.ToPtr("Xiaomi")
			l.URL = "https://irshad.az/5"
			l.Image = ""
			l.InStock = models.StockUnknown
			l.Installment12M = decimal.NullDecimal{}
		}, modelstesting.WithDiscount("100", "86")),
		modelstesting.FakeListing(func(l *models.Listing) {
			l.Source = "wt"
			l.ProductID = "w1"
			l.Name = "Telefon Pro Max"
			l.Brand = nil
			l.PriceCurrent = decimal.RequireFromString("249.9")
			l.Installment12M = decimal.NewNullDecimal(decimal.RequireFromString("20.83"))
			l.InStock = models.StockNo
			l.URL = "https://w-t.az/w1"
			l.Image = "https://w-t.az/w1.jpg"
		}),
	}

	want := unifiedHeader + "\n" +
		`irshad,5,"Xiaomi Redmi Note 13, 8/256 ""Black""",Xiaomi,86,100,14,14,AZN,,,,,https://irshad.az/5,` + "\n" +
		"wt,w1,Telefon Pro Max,,249.9,,,,AZN,,20.83,,No,https://w-t.az/w1,https://w-t.az/w1.jpg\n"

	var first, second bytes.Buffer
	require.NoError(t, dataset.WriteListings(&first, ds))
	require.NoError(t, dataset.WriteListings(&second, ds))

	assert.Equal(t, want, first.String(), "should write unified layout")
	assert.Equal(t, first.Bytes(), second.Bytes(), "should write byte-identical output")

	got, err := dataset.ReadListings(&first)
	require.NoError(t, err)
	require.Len(t, got, 2)

	var again bytes.Buffer
	require.NoError(t, dataset.WriteListings(&again, got))
	assert.Equal(t, want, again.String(), "should read back what was written")
}

func TestUnitReadListingsErrors(t *testing.T) {
	tests := map[string]struct {
		input   string
		wantErr error
	}{
		"wrong header": {
			input:   "source,name\nwt,x\n",
			wantErr: dataset.ErrHeaderMismatch,
		},
		"empty price": {
			input: unifiedHeader + "\nwt,1,x,,,,,,AZN,,,,,u,\n",
		},
		"malformed number": {
			input: unifiedHeader + "\nwt,1,x,,1a,,,,AZN,,,,,u,\n",
		},
		"short row": {
			input: unifiedHeader + "\nwt,1\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := dataset.ReadListings(strings.NewReader(tt.input))

			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestUnitReadRecords(t *testing.T) {
	tests := map[string]struct {
		input      string
		wantHeader []string
		wantLen    int
		wantName   string
	}{
		"plain": {
			input:      "product_id,name,price\n1,Honor 200,799\n2,Honor 90,599\n",
			wantHeader: []string{"product_id", "name", "price"},
			wantLen:    2,
			wantName:   "Honor 200",
		},
		"with bom": {
			input:      "\ufeffproduct_id,name,price\n1,Honor 200,799\n",
			wantHeader: []string{"product_id", "name", "price"},
			wantLen:    1,
			wantName:   "Honor 200",
		},
		"header only": {
			input:      "product_id,name,price\n",
			wantHeader: []string{"product_id", "name", "price"},
		},
		"empty file": {},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			header, records, err := dataset.ReadRecords(strings.NewReader(tt.input))

			require.NoError(t, err)
			assert.Equal(t, tt.wantHeader, header)
			require.Len(t, records, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, "1", records[0].Value("product_id"), "should key values by header without bom")
				assert.Equal(t, tt.wantName, records[0].Value("name"))
			}
		})
	}
}

func TestUnitExports(t *testing.T) {
	dir := t.TempDir()
	exports := dataset.NewExports(filepath.Join(dir, "data"))

	t.Run("raw export", func(t *testing.T) {
		records := []models.RawRecord{
			models.RawFrom("product_id", "1", "name", "Honor 200", "price", "799"),
			models.RawFrom("product_id", "2", "price", "599"),
		}

		require.NoError(t, exports.WriteRaw("telsat", []string{"product_id", "name", "price"}, records))

		content, err := os.ReadFile(exports.RawPath("telsat"))
		require.NoError(t, err)
		assert.Equal(t, "product_id,name,price\n1,Honor 200,799\n2,,599\n", string(content))

		got, err := exports.ReadRaw("telsat")
		require.NoError(t, err)
		assert.Equal(t, "telsat", got.Source)
		require.Len(t, got.Records, 2)
		assert.Equal(t, "599", got.Records[1].Value("price"))
	})

	t.Run("header only raw export", func(t *testing.T) {
		require.NoError(t, exports.WriteRaw("wt", []string{"product_id", "name"}, nil))

		got, err := exports.ReadRaw("wt")
		require.NoError(t, err)
		assert.Empty(t, got.Records)
	})

	t.Run("missing raw export", func(t *testing.T) {
		_, err := exports.ReadRaw("almali")

		require.ErrorIs(t, err, dataset.ErrExportMissing)
	})

	t.Run("dataset", func(t *testing.T) {
		ds := models.Dataset{modelstesting.FakeListing(), modelstesting.FakeListing()}

		require.NoError(t, exports.WriteDataset(ds))

		got, err := exports.ReadDataset()
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, ds[1].ProductID, got[1].ProductID)
		assert.True(t, ds[1].PriceCurrent.Equal(got[1].PriceCurrent))
	})

	t.Run("diagnostics", func(t *testing.T) {
		empty, err := dataset.NewExports(t.TempDir()).ReadDiagnostics()
		require.NoError(t, err)
		assert.Empty(t, empty.Sources, "missing diagnostics should be empty")

		diagnostics := models.Diagnostics{Sources: []models.SourceDiagnostics{
			{
				Source:   "wt",
				Raw:      3,
				Accepted: 2,
				Dropped:  map[models.IssueKind]int{models.IssueMissingRequiredField: 1},
				Warnings: map[models.IssueKind]int{models.IssueMalformedNumber: 1},
			},
			{Source: "telsat", Empty: true, Unavailable: "status 503"},
		}}

		require.NoError(t, exports.WriteDiagnostics(diagnostics))

		got, err := exports.ReadDiagnostics()
		require.NoError(t, err)
		assert.Equal(t, diagnostics, got)
	})
}
