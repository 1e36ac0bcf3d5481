package letter

import (
	"strings"
	"testing"

	"github.com/kingrea/fair-chance/internal/record"
)

func preliminaryRecord() record.CaseRecord {
	return record.CaseRecord{
		Activities: record.ActivityRecord{
			WorkExperience: record.Activity{Answer: record.TriYes, Details: "Warehouse lead"},
			JobTraining:    record.Activity{Answer: record.TriYes},
			Education:      record.Activity{Answer: record.TriUnknown},
		},
		PreliminaryNotice: record.PreliminaryNotice{
			Date:                    "2024-06-15",
			ApplicantName:           "Jordan Reyes",
			Position:                "Delivery Driver",
			Convictions:             []string{"Petty theft (2021)", "", "  ", "Vandalism (2019)"},
			ConductSeriousness:      "Misdemeanor theft",
			TimeElapsedSinceConduct: "2 years and 9 months",
			TimeElapsedSinceRelease: "1 year",
			JobDuties:               []string{"Drive routes", "", "Handle packages"},
			ReasoningForRevocation:  "Unsupervised access to customer property",
			EmployerName:            "Pat Lee",
			EmployerCompany:         "Harbor Logistics",
			ResponseDeadline:        7,
			ResponseEmail:           "hr@harbor.example",
		},
	}
}

func TestPreliminaryClauses(t *testing.T) {
	out := Preliminary(preliminaryRecord())
	for _, want := range []string{
		"2024-06-15\n\nRe: Preliminary Decision to Revoke Job Offer Because of Conviction History\n\nDear Jordan Reyes:",
		"for the position of Delivery Driver because of the following conviction(s):\n\n- Petty theft (2021)\n- Vandalism (2019)\n\nA copy",
		"we have NOT considered any of the following:",
		"- Participation in a pretrial or posttrial diversion program; or",
		"Within 7 business days\\* from when you first receive this notice",
		"Please send any additional information you would like us to consider to: hr@harbor.example",
		"- **Work Experience:** Yes - Warehouse lead\n- **Job Training:** Yes\n- **Education:** Unknown\n- **Counseling:** No\n- **Rehabilitation:** No\n- **Community Service:** No\n",
		"1. The nature and seriousness of the conduct that led to your conviction(s), which we assessed as follows:\\\n   Misdemeanor theft",
		"which was: 2 years and 9 months and how long ago you completed your sentence, which was: 1 year.",
		"3. The specific duties and responsibilities of the position of Delivery Driver, which are:\n   - Drive routes\n   - Handle packages\n",
		"because:\\\nUnsupervised access to customer property",
		"- Mail to: 2218 Kausen Drive, Suite 100, Elk Grove, CA 95758",
		"Sincerely,\n\nPat Lee\\\nHarbor Logistics\n",
		"*Enclosure: Copy of conviction history report*",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("preliminary letter missing %q\n---\n%s", want, out)
		}
	}
}

func TestPreliminaryIsDeterministic(t *testing.T) {
	rec := preliminaryRecord()
	if Preliminary(rec) != Preliminary(rec) {
		t.Fatalf("preliminary letter not byte-stable")
	}
}

func finalNotice() record.FinalNotice {
	return record.FinalNotice{
		Date:                    "2024-07-01",
		DateOfNotice:            "2024-06-15",
		ApplicantName:           "Jordan Reyes",
		Position:                "Delivery Driver",
		ReceivedResponse:        record.No,
		HasError:                record.No,
		Convictions:             []string{"", "Petty theft (2021)"},
		ConductSeriousness:      "Misdemeanor theft",
		TimeElapsedSinceConduct: "3 years",
		TimeElapsedSinceRelease: "1 year",
		JobDuties:               []string{"Drive routes"},
		ReasoningForRevocation:  "Unsupervised access",
		AllowsReconsideration:   record.No,
		EmployerName:            "Pat Lee",
		EmployerCompany:         "Harbor Logistics",
		EmployerAddress:         "1 Pier Way, San Diego, CA",
		EmployerPhone:           "619-555-0100",
	}
}

func TestFinalNoResponseBranch(t *testing.T) {
	out := Final(finalNotice())
	if !strings.Contains(out, "**Re: Final Decision to Revoke Job Offer Because of Conviction History**") {
		t.Fatalf("missing subject:\n%s", out)
	}
	if !strings.Contains(out, "We are following up about our letter dated 2024-06-15 which notified you") {
		t.Fatalf("missing opening:\n%s", out)
	}
	want := "conditional job offer.\n\n☒ We did not receive a timely response from you after sending you that letter, and our decision to revoke the job offer is now final.\n\nAfter reviewing"
	if !strings.Contains(out, want) {
		t.Fatalf("no-response branch malformed:\n%s", out)
	}
	if strings.Contains(out, "which included:") {
		t.Fatalf("both response branches rendered:\n%s", out)
	}
}

func TestFinalResponseBranchListsSubmittedInformation(t *testing.T) {
	n := finalNotice()
	n.ReceivedResponse = record.Yes
	n.SubmittedInformation = []string{"Certificate of completion", "", "Employer reference"}
	out := Final(n)
	want := "which included:\n\n- Certificate of completion\n- Employer reference\n\nAfter reviewing"
	if !strings.Contains(out, want) {
		t.Fatalf("response branch malformed:\n%s", out)
	}
	if strings.Contains(out, "did not receive a timely response") {
		t.Fatalf("both response branches rendered:\n%s", out)
	}
}

func TestFinalErrorGlyphsExactlyOneMarked(t *testing.T) {
	for _, tc := range []struct {
		hasError record.YesNo
		want     string
	}{
		{record.Yes, "there ☒ was ☐ was not an error"},
		{record.No, "there ☐ was ☒ was not an error"},
	} {
		n := finalNotice()
		n.HasError = tc.hasError
		out := Final(n)
		if !strings.Contains(out, tc.want) {
			t.Fatalf("hasError=%s: expected %q in\n%s", tc.hasError, tc.want, out)
		}
		line := out[strings.Index(out, "After reviewing"):]
		line = line[:strings.Index(line, "\n")]
		if strings.Count(line, CheckedBox) != 1 || strings.Count(line, UncheckedBox) != 1 {
			t.Fatalf("hasError=%s: glyph pair wrong in %q", tc.hasError, line)
		}
	}
}

func TestFinalReconsiderationBranches(t *testing.T) {
	n := finalNotice()
	out := Final(n)
	if !strings.Contains(out, "☒ We do not offer any way to challenge this decision or request reconsideration.") {
		t.Fatalf("missing no-reconsideration clause:\n%s", out)
	}
	n.AllowsReconsideration = record.Yes
	n.ReconsiderationProcedure = "Email hr@harbor.example within 10 days."
	out = Final(n)
	want := "☒ If you would like to challenge this decision or request reconsideration, you may:\\\nEmail hr@harbor.example within 10 days.\n\n### Your Right to File a Complaint:"
	if !strings.Contains(out, want) {
		t.Fatalf("reconsideration branch malformed:\n%s", out)
	}
	if strings.Contains(out, "We do not offer") {
		t.Fatalf("both reconsideration branches rendered")
	}
}

func TestFinalAssessmentAndSignature(t *testing.T) {
	n := finalNotice()
	n.EmployerAddress = ""
	out := Final(n)
	for _, want := range []string{
		"### Our Individualized Assessment:",
		"   - Since conduct occurred: 3 years\n   - Since sentence completion: 1 year\n",
		"3. **The specific duties and responsibilities of the position of Delivery Driver:**\n   - Drive routes\n",
		"following conviction(s):\n\n- Petty theft (2021)\n\n### Our",
		"- Call: 619-531-5129",
		"Sincerely,\n\nPat Lee\\\nHarbor Logistics\\\n619-555-0100\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("final letter missing %q\n---\n%s", want, out)
		}
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(" Final "); err != nil || k != KindFinal {
		t.Fatalf("ParseKind(final) = %q, %v", k, err)
	}
	if _, err := ParseKind("draft"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestRenderSelectsSection(t *testing.T) {
	rec := preliminaryRecord()
	rec.FinalNotice = finalNotice()
	out, err := Render(KindFinal, rec)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, KindFinal.Subject()) {
		t.Fatalf("final render missing subject")
	}
	out, err = Render(KindPreliminary, rec)
	if err != nil || !strings.Contains(out, KindPreliminary.Subject()) {
		t.Fatalf("preliminary render wrong: %v", err)
	}
}
