package importer

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fixedTimeSource struct {
	now time.Time
}

func (f *fixedTimeSource) Now() time.Time {
	return f.now
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

var _ = Describe("DetectFileType", func() {
	DescribeTable("classification",
		func(name, mimeType string, expected FileType) {
			Expect(DetectFileType(name, mimeType)).To(Equal(expected))
		},
		Entry("xlsx extension", "statement.xlsx", "", FileTypeExcel),
		Entry("xlsm extension", "statement.xlsm", "", FileTypeExcel),
		Entry("legacy xls extension", "statement.XLS", "", FileTypeExcel),
		Entry("mixed case pdf extension", "statement.PDF", "", FileTypePDF),
		Entry("xlsx with unrelated MIME type", "statement.xlsx", "text/plain", FileTypeExcel),
		Entry("spreadsheet MIME type", "", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", FileTypeExcel),
		Entry("excel MIME type", "download", "application/vnd.ms-excel", FileTypeExcel),
		Entry("pdf MIME type", "download", "application/pdf", FileTypePDF),
		Entry("pdf MIME type is matched exactly", "download", "application/pdf; charset=binary", FileTypeUnknown),
		Entry("csv", "statement.csv", "text/csv", FileTypeUnknown),
		Entry("extension must be a suffix", "statement.pdf.txt", "", FileTypeUnknown),
		Entry("nothing", "", "", FileTypeUnknown),
	)
})

var _ = Describe("Importer", func() {
	var (
		now      time.Time
		importer *Importer
		file     File
		result   *ImportResult
		err      error
	)

	BeforeEach(func() {
		now = time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC)
		importer = NewWithTimeSource(&fixedTimeSource{now: now})
	})

	JustBeforeEach(func() {
		result, err = importer.Import(file)
	})

	When("importing a spreadsheet", func() {
		var data []byte

		BeforeEach(func() {
			data = buildWorkbook([][]any{
				{"Date", "Description", "Amount", "Category"},
				{"2024-01-05", "Coffee Shop", "-4.50", "Food"},
				{"", "", ""},
				{"2024-01-06", "Paycheck", "1,500.00"},
			})
			file = File{Name: "january.xlsx", Data: data}
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should extract the transactions in row order", func() {
			Expect(result.Transactions).To(Equal([]TransactionRecord{
				{Date: "2024-01-05T00:00:00.000Z", Description: "Coffee Shop", Amount: -4.5, Category: "Food"},
				{Date: "2024-01-06T00:00:00.000Z", Description: "Paycheck", Amount: 1500},
			}))
		})

		It("should use the file name as source name", func() {
			Expect(result.SourceName).To(Equal("january.xlsx"))
		})

		It("should record import metadata", func() {
			Expect(result.Metadata).To(HaveKeyWithValue("importedAt", "2024-04-01T09:30:00.000Z"))
			Expect(result.Metadata).To(HaveKeyWithValue("fileSize", int64(len(data))))
			Expect(result.Metadata).To(HaveKeyWithValue("fileType", "excel"))
		})
	})

	When("a spreadsheet holds real date cells", func() {
		BeforeEach(func() {
			file = File{Name: "dates.xlsx", Data: buildWorkbook([][]any{
				{"Date", "Description", "Amount"},
				{time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), "Coffee", -4.5},
				{time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), "Grocery Store", -52.13},
			})}
		})

		It("should read the dates as the spreadsheet displays them", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Transactions).To(Equal([]TransactionRecord{
				{Date: "2024-01-05T00:00:00.000Z", Description: "Coffee", Amount: -4.5},
				{Date: "2024-03-15T00:00:00.000Z", Description: "Grocery Store", Amount: -52.13},
			}))
		})
	})

	When("importing a legacy xls workbook", func() {
		BeforeEach(func() {
			data, readErr := os.ReadFile(filepath.Join("testdata", "statement.xls"))
			Expect(readErr).NotTo(HaveOccurred())
			file = File{Name: "statement.xls", Data: data}
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should extract the transactions in row order with blank cells absent", func() {
			Expect(result.Transactions).To(Equal([]TransactionRecord{
				{Date: "2024-01-15T00:00:00.000Z", Description: "Pharmacy", Amount: -25.99, Category: "Health"},
				{Date: "2024-01-16T00:00:00.000Z", Description: "Payroll", Amount: 1500},
				{Date: "2024-01-17T00:00:00.000Z", Description: "Refund", Amount: 0, Category: "Shopping"},
			}))
		})

		It("should classify it as a spreadsheet", func() {
			Expect(result.Metadata).To(HaveKeyWithValue("fileType", "excel"))
		})
	})

	When("a legacy xls workbook has no worksheets", func() {
		BeforeEach(func() {
			data, readErr := os.ReadFile(filepath.Join("testdata", "no-sheets.xls"))
			Expect(readErr).NotTo(HaveOccurred())
			file = File{Name: "no-sheets.xls", Data: data}
		})

		It("should return ErrEmptyWorkbook", func() {
			Expect(err).To(MatchError(ErrEmptyWorkbook))
			Expect(result).To(BeNil())
		})
	})

	When("a legacy xls file has no workbook stream", func() {
		BeforeEach(func() {
			data, readErr := os.ReadFile(filepath.Join("testdata", "no-workbook.xls"))
			Expect(readErr).NotTo(HaveOccurred())
			file = File{Name: "no-workbook.xls", Data: data}
		})

		It("should return an error", func() {
			Expect(err).To(HaveOccurred())
			Expect(result).To(BeNil())
		})
	})

	When("a spreadsheet has only a header row", func() {
		BeforeEach(func() {
			file = File{Name: "empty.xlsx", Data: buildWorkbook([][]any{{"Date", "Description", "Amount"}})}
		})

		It("should succeed with no transactions", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Transactions).NotTo(BeNil())
			Expect(result.Transactions).To(BeEmpty())
		})
	})

	When("importing a PDF statement", func() {
		var data []byte

		BeforeEach(func() {
			data = buildPDF(
				[]string{"Account statement", "03/15/2024 Grocery Store $52.13"},
				[]string{"Statement continued on next page", "2024-03-20 Electric bill -88.40"},
			)
			file = File{
				Name: "statement.pdf",
				Body: bytes.NewReader(data),
			}
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should extract matching lines in page order", func() {
			Expect(result.Transactions).To(HaveLen(2))
			Expect(result.Transactions[0]).To(Equal(TransactionRecord{
				Date: "2024-03-15T00:00:00.000Z", Description: "Grocery Store", Amount: 52.13,
			}))
			Expect(result.Transactions[1].Description).To(Equal("Electric bill"))
			Expect(result.Transactions[1].Amount).To(Equal(-88.40))
		})

		It("should count the bytes read from the body", func() {
			Expect(result.Metadata).To(HaveKeyWithValue("fileSize", int64(len(data))))
			Expect(result.Metadata).To(HaveKeyWithValue("fileType", "pdf"))
		})
	})

	When("the file is detected by MIME type only", func() {
		BeforeEach(func() {
			file = File{MIMEType: "application/pdf", Size: 99, Data: buildPDF([]string{"nothing here"})}
		})

		It("should use the placeholder source name", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.SourceName).To(Equal(DefaultSourceName))
		})

		It("should prefer the declared size", func() {
			Expect(result.Metadata).To(HaveKeyWithValue("fileSize", int64(99)))
		})
	})

	When("no parser accepts the file", func() {
		BeforeEach(func() {
			file = File{Name: "notes.txt", Data: []byte("hello")}
		})

		It("should return ErrNoParser naming the file", func() {
			Expect(err).To(MatchError(ErrNoParser))
			Expect(err.Error()).To(ContainSubstring("notes.txt"))
			Expect(result).To(BeNil())
		})
	})

	When("the file carries no bytes", func() {
		BeforeEach(func() {
			file = File{Name: "statement.pdf"}
		})

		It("should return ErrUnsupportedInput", func() {
			Expect(err).To(MatchError(ErrUnsupportedInput))
		})
	})

	When("the body cannot be read", func() {
		BeforeEach(func() {
			file = File{Name: "statement.pdf", Body: failingReader{}}
		})

		It("returns the error", func() {
			Expect(err).To(MatchError(ContainSubstring("connection reset")))
		})
	})

	When("the spreadsheet bytes are malformed", func() {
		BeforeEach(func() {
			file = File{Name: "broken.xlsx", Data: []byte("definitely not a zip archive")}
		})

		It("returns the decoder error", func() {
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("broken.xlsx"))
			Expect(errors.Is(err, ErrEmptyWorkbook)).To(BeFalse())
		})
	})

	When("the PDF bytes are malformed", func() {
		BeforeEach(func() {
			file = File{Name: "broken.pdf", Data: []byte("not a pdf")}
		})

		It("returns the decoder error", func() {
			Expect(err).To(HaveOccurred())
			Expect(result).To(BeNil())
		})
	})
})
