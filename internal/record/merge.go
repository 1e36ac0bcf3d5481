package record

// Merge overlays a newer partial record on base. A non-empty overlay field
// wins; empty overlay fields never clear base. Slot lists are replaced whole
// when the overlay list is non-nil. Nested sections merge field by field.
func Merge(base, overlay CaseRecord) CaseRecord {
	out := base
	str(&out.EmployerName, overlay.EmployerName)
	str(&out.ApplicantName, overlay.ApplicantName)
	str(&out.PositionApplied, overlay.PositionApplied)
	str(&out.EmployerCompany, overlay.EmployerCompany)
	str(&out.EmployerAddress, overlay.EmployerAddress)
	str(&out.EmployerPhone, overlay.EmployerPhone)
	str(&out.AssessmentPerformer, overlay.AssessmentPerformer)

	str(&out.DateConditionalOffer, overlay.DateConditionalOffer)
	str(&out.DateAssessment, overlay.DateAssessment)
	str(&out.DateCriminalHistory, overlay.DateCriminalHistory)
	str(&out.DateReassessment, overlay.DateReassessment)
	str(&out.DateOfNotice, overlay.DateOfNotice)

	str(&out.ConvictionMonth, overlay.ConvictionMonth)
	str(&out.ConvictionYear, overlay.ConvictionYear)
	list(&out.JobDuties, overlay.JobDuties)
	str(&out.CriminalConduct, overlay.CriminalConduct)
	for _, cat := range ActivityCategories {
		mergeActivity(out.Activities.Field(cat.Key), *overlay.Activities.Field(cat.Key))
	}

	if overlay.Decision != "" {
		out.Decision = overlay.Decision
	}
	str(&out.RescindReason, overlay.RescindReason)
	if overlay.StoreAssessment != nil {
		v := *overlay.StoreAssessment
		out.StoreAssessment = &v
	}

	out.PreliminaryNotice = mergePreliminary(base.PreliminaryNotice, overlay.PreliminaryNotice)
	out.Reassessment = mergeReassessment(base.Reassessment, overlay.Reassessment)
	out.FinalNotice = MergeFinal(base.FinalNotice, overlay.FinalNotice)
	out.JobDuties = clone(out.JobDuties)
	return out
}

func mergeActivity(dst *Activity, src Activity) {
	if src.Answer != "" {
		dst.Answer = src.Answer
	}
	str(&dst.Details, src.Details)
}

func mergePreliminary(base, overlay PreliminaryNotice) PreliminaryNotice {
	out := base
	str(&out.Date, overlay.Date)
	str(&out.ApplicantName, overlay.ApplicantName)
	str(&out.Position, overlay.Position)
	list(&out.Convictions, overlay.Convictions)
	str(&out.ConductSeriousness, overlay.ConductSeriousness)
	str(&out.TimeElapsedSinceConduct, overlay.TimeElapsedSinceConduct)
	str(&out.TimeElapsedSinceRelease, overlay.TimeElapsedSinceRelease)
	list(&out.JobDuties, overlay.JobDuties)
	str(&out.ReasoningForRevocation, overlay.ReasoningForRevocation)
	str(&out.EmployerName, overlay.EmployerName)
	str(&out.EmployerCompany, overlay.EmployerCompany)
	if overlay.ResponseDeadline != 0 {
		out.ResponseDeadline = overlay.ResponseDeadline
	}
	str(&out.ResponseEmail, overlay.ResponseEmail)
	str(&out.SentAt, overlay.SentAt)
	str(&out.ReceiptID, overlay.ReceiptID)
	out.Convictions = clone(out.Convictions)
	out.JobDuties = clone(out.JobDuties)
	return out
}

func mergeReassessment(base, overlay Reassessment) Reassessment {
	out := base
	yesNo(&out.HasError, overlay.HasError)
	str(&out.ErrorDescription, overlay.ErrorDescription)
	for _, cat := range EvidenceCategories {
		dst, src := out.Evidence.Field(cat.Key), overlay.Evidence.Field(cat.Key)
		yesNo(&dst.Answer, src.Answer)
		str(&dst.Notes, src.Notes)
	}
	str(&out.Evidence.AdditionalEvidence, overlay.Evidence.AdditionalEvidence)
	if overlay.Decision != "" {
		out.Decision = overlay.Decision
	}
	str(&out.RescindReason, overlay.RescindReason)
	return out
}

// MergeFinal applies the same precedence rule to final notice sections.
func MergeFinal(base, overlay FinalNotice) FinalNotice {
	out := base
	str(&out.Date, overlay.Date)
	str(&out.DateOfNotice, overlay.DateOfNotice)
	str(&out.ApplicantName, overlay.ApplicantName)
	str(&out.Position, overlay.Position)
	yesNo(&out.ReceivedResponse, overlay.ReceivedResponse)
	list(&out.SubmittedInformation, overlay.SubmittedInformation)
	yesNo(&out.HasError, overlay.HasError)
	list(&out.Convictions, overlay.Convictions)
	str(&out.ConductSeriousness, overlay.ConductSeriousness)
	str(&out.TimeElapsedSinceConduct, overlay.TimeElapsedSinceConduct)
	str(&out.TimeElapsedSinceRelease, overlay.TimeElapsedSinceRelease)
	list(&out.JobDuties, overlay.JobDuties)
	str(&out.ReasoningForRevocation, overlay.ReasoningForRevocation)
	yesNo(&out.AllowsReconsideration, overlay.AllowsReconsideration)
	str(&out.ReconsiderationProcedure, overlay.ReconsiderationProcedure)
	str(&out.EmployerName, overlay.EmployerName)
	str(&out.EmployerCompany, overlay.EmployerCompany)
	str(&out.EmployerAddress, overlay.EmployerAddress)
	str(&out.EmployerPhone, overlay.EmployerPhone)
	str(&out.SentAt, overlay.SentAt)
	str(&out.ReceiptID, overlay.ReceiptID)
	out.SubmittedInformation = clone(out.SubmittedInformation)
	out.Convictions = clone(out.Convictions)
	out.JobDuties = clone(out.JobDuties)
	return out
}

func str(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func yesNo(dst *YesNo, src YesNo) {
	if src != "" {
		*dst = src
	}
}

func list(dst *[]string, src []string) {
	if src != nil {
		*dst = src
	}
}

func clone(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
