package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/brunogennarelli2-del/prospectelettrica/internal/model"
)

func testRows() []model.Prospect {
	last := time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC)
	next := time.Date(2025, 9, 19, 0, 0, 0, 0, time.UTC)
	days := 20
	return []model.Prospect{
		{
			Name: "Aisha Khan", Email: "aisha@solarfuture.ae", Phone: "+971 50 000 0000",
			Company: "SolarFuture, LLC", Role: "CEO", Country: "United Arab Emirates",
			Status: "New", Priority: "High", Owner: "Bruno", PresentInCRM: model.CRMYes,
			Notes: "said \"call me\"", Region: model.RegionMENA, EmailDomain: "solarfuture.ae",
			RoleNorm: "Ceo", LastContacted: "09/05/2025", LastContactedAt: &last, DaysSinceContact: &days,
			Score: 5.67, NextFollowUp: &next, Overdue: true,
		},
		{
			Name: "Rahul Mehta", Email: "rahul@gmail.com", Company: "Volt India", Country: "India",
			LastContacted: "last week",
			Region: model.RegionAPAC, EmailDomain: "gmail.com", IsGenericDomain: true, Score: 0,
		},
	}
}

func TestParseTemplate(t *testing.T) {
	tests := []struct {
		in   string
		want Template
	}{
		{"", TemplateNone},
		{"none", TemplateNone},
		{"Salesforce", TemplateSalesforce},
		{"HUBSPOT", TemplateHubSpot},
	}
	for _, tt := range tests {
		got, err := ParseTemplate(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseTemplate("pipedrive")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)
	assert.Contains(t, f.ContentType(), "spreadsheetml")

	f, err = ParseFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", f.ContentType())

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestBuild_None(t *testing.T) {
	tbl := Build(testRows(), TemplateNone)

	assert.Equal(t, []string{
		"Name", "Email", "Phone", "Company", "Role", "Country", "Status", "Priority",
		"Owner", "LastContacted", "PresentInCRM", "Notes", "Region", "EmailDomain",
		"IsGenericDomain", "RoleNorm", "DaysSinceContact", "Score", "NextFollowUp", "Overdue",
	}, tbl.Header)
	require.Len(t, tbl.Records, 2)

	a := tbl.Records[0]
	assert.Equal(t, "Aisha Khan", a[0])
	// LastContacted passes through as written in the source file.
	assert.Equal(t, "09/05/2025", a[9])
	assert.Equal(t, "MENA", a[12])
	assert.Equal(t, "false", a[14])
	assert.Equal(t, "20", a[16])
	assert.Equal(t, "5.67", a[17])
	assert.Equal(t, "2025-09-19", a[18])
	assert.Equal(t, "true", a[19])

	r := tbl.Records[1]
	assert.Equal(t, "last week", r[9])
	assert.Equal(t, "true", r[14])
	assert.Equal(t, "", r[16])
	assert.Equal(t, "0.00", r[17])
	assert.Equal(t, "", r[18])
	assert.Equal(t, "false", r[19])
}

func TestBuild_Salesforce(t *testing.T) {
	tbl := Build(testRows(), TemplateSalesforce)
	assert.Equal(t, []string{
		"FullName", "Title", "Email", "Phone", "AccountName", "Country",
		"LeadStatus", "Rating", "Owner", "NextFollowUp", "PresentInCRM", "Description",
	}, tbl.Header)
	assert.Equal(t, []string{
		"Aisha Khan", "CEO", "aisha@solarfuture.ae", "+971 50 000 0000", "SolarFuture, LLC",
		"United Arab Emirates", "New", "High", "Bruno", "2025-09-19", "Yes", "said \"call me\"",
	}, tbl.Records[0])
}

func TestBuild_HubSpot(t *testing.T) {
	tbl := Build(testRows(), TemplateHubSpot)
	assert.Equal(t, []string{
		"firstname lastname", "jobtitle", "email", "phone", "company", "country",
		"lifecyclestage", "hs_lead_rating", "hubspot_owner_id", "NextFollowUp", "present_in_crm", "notes",
	}, tbl.Header)
	assert.Equal(t, "Rahul Mehta", tbl.Records[1][0])
	assert.Equal(t, "Volt India", tbl.Records[1][4])
	assert.Equal(t, "", tbl.Records[1][9])
}

func TestBuild_Empty(t *testing.T) {
	tbl := Build(nil, TemplateSalesforce)
	assert.Len(t, tbl.Header, 12)
	assert.Empty(t, tbl.Records)
}

func readXLSX(t *testing.T, data []byte) [][]string {
	t.Helper()
	f, err := xlsx.OpenBinary(data)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	assert.Equal(t, SheetName, f.Sheets[0].Name)

	var out [][]string
	for _, row := range f.Sheets[0].Rows {
		var rec []string
		for _, c := range row.Cells {
			rec = append(rec, c.String())
		}
		out = append(out, rec)
	}
	return out
}

func TestWriteCSVAndXLSXMatch(t *testing.T) {
	for _, tmpl := range Templates {
		t.Run(string(tmpl), func(t *testing.T) {
			tbl := Build(testRows(), tmpl)

			var csvBuf bytes.Buffer
			require.NoError(t, WriteCSV(&csvBuf, tbl))
			csvRecords, err := csv.NewReader(&csvBuf).ReadAll()
			require.NoError(t, err)

			var xlsxBuf bytes.Buffer
			require.NoError(t, WriteXLSX(&xlsxBuf, tbl))
			xlsxRecords := readXLSX(t, xlsxBuf.Bytes())

			want := append([][]string{tbl.Header}, tbl.Records...)
			assert.Equal(t, want, csvRecords)
			// Trailing empty cells are not materialized by the reader.
			require.Len(t, xlsxRecords, len(want))
			for i := range want {
				for j, v := range xlsxRecords[i] {
					assert.Equal(t, want[i][j], v, "row %d col %d", i, j)
				}
			}
		})
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	tbl := Build(testRows(), TemplateNone)

	csvPath := filepath.Join(dir, "out.csv")
	require.NoError(t, WriteFile(csvPath, tbl))
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("Name,Email,Phone")))

	xlsxPath := filepath.Join(dir, "out.xlsx")
	require.NoError(t, WriteFile(xlsxPath, tbl))
	data, err = os.ReadFile(xlsxPath)
	require.NoError(t, err)
	assert.Equal(t, "Aisha Khan", readXLSX(t, data)[1][0])

	err = WriteFile(filepath.Join(dir, "out.json"), tbl)
	assert.Error(t, err)
}

func TestEmailAndPhoneLists(t *testing.T) {
	rows := []model.Prospect{
		{Email: "b@x.com", Phone: "222"},
		{Email: "a@x.com", Phone: ""},
		{Email: "b@x.com", Phone: "111"},
		{Email: "no-email", Phone: "222"},
		{},
	}
	assert.Equal(t, "a@x.com, b@x.com", EmailList(rows))
	assert.Equal(t, "111, 222", PhoneList(rows))
	assert.Equal(t, "", EmailList(nil))
}
