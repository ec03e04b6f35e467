package catalog

import "github.com/corporatesaathi/saathi/internal/client/api"

// Seed returns the default service catalog.
func Seed() []api.Service {
	return []api.Service{
		{
			ID:          "gst-registration",
			Name:        "GST Registration",
			Description: "Register your business under the Goods and Services Tax.",
			Category:    "Tax",
			Price:       2999,
			Duration:    "7-10 days",
			Features:    []string{"GSTIN certificate", "HSN/SAC code mapping", "Expert consultation"},
		},
		{
			ID:          "gst-returns",
			Name:        "GST Return Filing",
			Description: "Monthly and quarterly GSTR-1 and GSTR-3B filing.",
			Category:    "Tax",
			Price:       1499,
			Duration:    "Monthly",
			Features:    []string{"GSTR-1 and GSTR-3B", "Input tax credit reconciliation", "Deadline reminders"},
		},
		{
			ID:          "pvt-ltd-incorporation",
			Name:        "Private Limited Company Incorporation",
			Description: "Incorporate a private limited company with the MCA.",
			Category:    "Company",
			Price:       6999,
			Duration:    "10-15 days",
			Features:    []string{"DSC and DIN for two directors", "Name approval", "PAN and TAN"},
		},
		{
			ID:          "roc-annual-filing",
			Name:        "ROC Annual Filing",
			Description: "Annual return and financial statement filing with the Registrar of Companies.",
			Category:    "Company",
			Price:       4999,
			Duration:    "Annual",
			Features:    []string{"AOC-4 and MGT-7", "Board resolutions", "Auditor coordination"},
		},
		{
			ID:          "trademark-registration",
			Name:        "Trademark Registration",
			Description: "Protect your brand name and logo.",
			Category:    "Intellectual Property",
			Price:       5499,
			Duration:    "12-18 months",
			Features:    []string{"Trademark search", "TM-A application", "Objection support"},
		},
		{
			ID:          "itr-filing",
			Name:        "Income Tax Return Filing",
			Description: "Income tax returns for businesses and professionals.",
			Category:    "Tax",
			Price:       1999,
			Duration:    "Annual",
			Features:    []string{"Computation of income", "Tax saving review", "E-verification"},
		},
		{
			ID:          "payroll-compliance",
			Name:        "Payroll Compliance",
			Description: "PF, ESI and professional tax registrations and monthly returns.",
			Category:    "Labour",
			Price:       3499,
			Duration:    "Monthly",
			Features:    []string{"PF and ESI returns", "Payslip generation", "Professional tax"},
		},
	}
}
