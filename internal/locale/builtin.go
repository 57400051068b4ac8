package locale

// builtin holds the shipped text sets. Keep each language total over allKeys;
// New validates this at startup.
var builtin = map[string]map[Key]string{
	"en-IN": {
		KeyGreeting:       "Welcome to customer support.",
		KeyMenuItem:       "For English, press %s.",
		KeyInvalidChoice:  "Sorry, that was not a valid choice.",
		KeyQueryPrompt:    "Please ask your question after the beep.",
		KeyNoInput:        "Sorry, I did not hear anything.",
		KeyApology:        "Sorry, something went wrong while handling your question. Please try again.",
		KeyContinuation:   "To ask another question, press 1. To choose another language, press 2. To end the call, press 3.",
		KeyGoodbye:        "Thank you for calling. Goodbye.",
		KeyDefaultAnswer:  "Thank you for your question. Our team will get back to you with the details shortly.",
		KeyAnswerBilling:  "For billing questions, please contact our customer care at %s. They can review your invoice and payments.",
		KeyAnswerRecharge: "You can recharge your plan from our website or mobile app. The new balance is active within a few minutes.",
		KeyAnswerNetwork:  "If you are facing network issues, please restart your device. Our engineers are working to improve coverage in your area.",
	},
	"hi-IN": {
		KeyGreeting:       "ग्राहक सहायता में आपका स्वागत है।",
		KeyMenuItem:       "हिंदी के लिए %s दबाएँ।",
		KeyInvalidChoice:  "क्षमा करें, यह मान्य विकल्प नहीं है।",
		KeyQueryPrompt:    "कृपया बीप के बाद अपना प्रश्न पूछें।",
		KeyNoInput:        "क्षमा करें, मुझे कुछ सुनाई नहीं दिया।",
		KeyApology:        "क्षमा करें, आपके प्रश्न को संसाधित करने में समस्या हुई। कृपया फिर से प्रयास करें।",
		KeyContinuation:   "एक और प्रश्न पूछने के लिए 1 दबाएँ। दूसरी भाषा चुनने के लिए 2 दबाएँ। कॉल समाप्त करने के लिए 3 दबाएँ।",
		KeyGoodbye:        "कॉल करने के लिए धन्यवाद। नमस्ते।",
		KeyDefaultAnswer:  "आपके प्रश्न के लिए धन्यवाद। हमारी टीम शीघ्र ही विवरण के साथ आपसे संपर्क करेगी।",
		KeyAnswerBilling:  "बिलिंग से जुड़े प्रश्नों के लिए कृपया हमारे ग्राहक सेवा नंबर %s पर संपर्क करें।",
		KeyAnswerRecharge: "आप हमारी वेबसाइट या मोबाइल ऐप से अपना प्लान रिचार्ज कर सकते हैं। नया बैलेंस कुछ ही मिनटों में सक्रिय हो जाता है।",
		KeyAnswerNetwork:  "नेटवर्क समस्या होने पर कृपया अपना डिवाइस पुनः चालू करें। हमारे इंजीनियर आपके क्षेत्र में कवरेज सुधारने पर काम कर रहे हैं।",
	},
	"te-IN": {
		KeyGreeting:       "కస్టమర్ సపోర్ట్‌కు స్వాగతం.",
		KeyMenuItem:       "తెలుగు కోసం %s నొక్కండి.",
		KeyInvalidChoice:  "క్షమించండి, అది సరైన ఎంపిక కాదు.",
		KeyQueryPrompt:    "దయచేసి బీప్ తర్వాత మీ ప్రశ్నను అడగండి.",
		KeyNoInput:        "క్షమించండి, నాకు ఏమీ వినిపించలేదు.",
		KeyApology:        "క్షమించండి, మీ ప్రశ్నను ప్రాసెస్ చేయడంలో సమస్య వచ్చింది. దయచేసి మళ్లీ ప్రయత్నించండి.",
		KeyContinuation:   "మరో ప్రశ్న అడగడానికి 1 నొక్కండి. వేరే భాష ఎంచుకోవడానికి 2 నొక్కండి. కాల్ ముగించడానికి 3 నొక్కండి.",
		KeyGoodbye:        "కాల్ చేసినందుకు ధన్యవాదాలు. శుభదినం.",
		KeyDefaultAnswer:  "మీ ప్రశ్నకు ధన్యవాదాలు. మా బృందం త్వరలో వివరాలతో మిమ్మల్ని సంప్రదిస్తుంది.",
		KeyAnswerBilling:  "బిల్లింగ్ ప్రశ్నల కోసం దయచేసి మా కస్టమర్ కేర్ నంబర్ %s కు సంప్రదించండి.",
		KeyAnswerRecharge: "మీరు మా వెబ్‌సైట్ లేదా మొబైల్ యాప్ ద్వారా మీ ప్లాన్ రీఛార్జ్ చేసుకోవచ్చు. కొత్త బ్యాలెన్స్ కొన్ని నిమిషాల్లో యాక్టివ్ అవుతుంది.",
		KeyAnswerNetwork:  "నెట్‌వర్క్ సమస్య ఉంటే దయచేసి మీ పరికరాన్ని రీస్టార్ట్ చేయండి. మా ఇంజనీర్లు మీ ప్రాంతంలో కవరేజ్ మెరుగుపరచడంపై పని చేస్తున్నారు.",
	},
}
