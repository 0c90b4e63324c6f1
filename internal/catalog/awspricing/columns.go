package awspricing

// attributeByColumn maps bulk CSV column names to Price List attribute names.
//
//nolint:gochecknoglobals // Static lookup table
var attributeByColumn = map[string]string{
	"Product Family":         "productFamily",
	"Instance Type":          "instanceType",
	"Instance Family":        "instanceFamily",
	"Location":               "location",
	"Location Type":          "locationType",
	"Region Code":            "regionCode",
	"Tenancy":                "tenancy",
	"Operating System":       "operatingSystem",
	"Pre Installed S/W":      "preInstalledSw",
	"License Model":          "licenseModel",
	"CapacityStatus":         "capacitystatus",
	"Current Generation":     "currentGeneration",
	"vCPU":                   "vcpu",
	"Memory":                 "memory",
	"Storage":                "storage",
	"Network Performance":    "networkPerformance",
	"Physical Processor":     "physicalProcessor",
	"Processor Architecture": "processorArchitecture",
	"usageType":              "usagetype",
	"operation":              "operation",
}

//nolint:gochecknoglobals // Derived from attributeByColumn
var columnByAttribute = func() map[string]string {
	m := make(map[string]string, len(attributeByColumn))
	for column, attribute := range attributeByColumn {
		m[attribute] = column
	}
	return m
}()

// columnForAttribute returns the CSV column for an API attribute. Unknown
// attributes keep their API name.
func columnForAttribute(attribute string) string {
	if column, ok := columnByAttribute[attribute]; ok {
		return column
	}
	return attribute
}
