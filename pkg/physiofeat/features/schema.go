package features

// Feature names of an assembled row.
const (
	KeyBVPMean     = "Bio_BVP_Mean"
	KeyHRMean      = "Bio_HR_Mean"
	KeyHRVRMSSD    = "Bio_HRV_RMSSD"
	KeyHRVLFHF     = "Bio_HRV_LFHF"
	KeyEDAMean     = "Bio_EDA_Mean"
	KeySCLMean     = "Bio_SCL_Mean"
	KeySCRFreq     = "Bio_SCR_Freq"
	KeyEDAMeanFreq = "Bio_EDA_MeanFreq"
	KeyEDAPeakFreq = "Bio_EDA_PeakFreq"
	KeyEDAPower005 = "Bio_EDA_Power005"
	KeyRespRate    = "Bio_RESP_Rate"
	KeyForceMean   = "Force_Total_Mean"
	KeyForceMax    = "Force_Total_Max"
)

// Schema lists every feature an assembled row carries, in column order.
var Schema = []string{
	KeyBVPMean,
	KeyHRMean,
	KeyHRVRMSSD,
	KeyHRVLFHF,
	KeyEDAMean,
	KeySCLMean,
	KeySCRFreq,
	KeyEDAMeanFreq,
	KeyEDAPeakFreq,
	KeyEDAPower005,
	KeyRespRate,
	KeyForceMean,
	KeyForceMax,
}

// InSchema reports whether name is one of the fixed feature columns.
func InSchema(name string) bool {
	for _, k := range Schema {
		if k == name {
			return true
		}
	}
	return false
}
