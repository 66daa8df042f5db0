package oracle

import "strings"

// Prompt templates are filled by simple placeholder substitution. The
// placeholder spelling is shared with the operators who tune these texts, so
// it stays verbatim even where Go templating would be more natural.
const (
	placeholderInvoiceJSON  = "{{facture_json}}"
	placeholderLedgerJSON   = "{{releve_bancaire}}"
	placeholderRawDocument  = "{{FACTURE_BRUTE}}"
	placeholderInvoicesJSON = "{{factures_json}}"
	placeholderRecsJSON     = "{{rapprochements_json}}"
)

const matchingContextIncoming = `Tu es un expert-comptable spécialisé dans le rapprochement bancaire.
On te donne une facture fournisseur et un relevé bancaire. Les paiements fournisseurs
apparaissent en débit (montants négatifs) sur le relevé.
Tu identifies les lignes du relevé susceptibles de correspondre au règlement de la facture,
en comparant date, montant TTC et libellé du fournisseur.
Tu réponds UNIQUEMENT en JSON avec les clés:
"correspondance_trouvee" (booléen),
"lignes_correspondantes" (liste de lignes, chacune avec "date", "amount", "vendor",
"similarite_fournisseur", "differences", "details_differences", "niveau_confiance" entre 0 et 1),
"conclusion" (une phrase).
Si aucune ligne ne correspond, "correspondance_trouvee" est false et la liste est vide.`

const matchingContextOutgoing = `Tu es un expert-comptable spécialisé dans le rapprochement bancaire.
On te donne une facture client émise et un relevé bancaire. Les encaissements clients
apparaissent en crédit (montants positifs) sur le relevé.
Tu identifies les lignes du relevé susceptibles de correspondre à l'encaissement de la facture,
en comparant date, montant TTC et libellé du client.
Tu réponds UNIQUEMENT en JSON avec les clés:
"correspondance_trouvee" (booléen),
"lignes_correspondantes" (liste de lignes, chacune avec "date", "amount", "vendor",
"similarite_fournisseur", "differences", "details_differences", "niveau_confiance" entre 0 et 1),
"conclusion" (une phrase).
Si aucune ligne ne correspond, "correspondance_trouvee" est false et la liste est vide.`

const matchingPromptTemplate = `Facture à rapprocher:
{{facture_json}}

Relevé bancaire (lignes non rapprochées):
{{releve_bancaire}}

Analyse le relevé et propose les correspondances.`

const extractionContext = `Tu es un assistant comptable expert en lecture de factures françaises.
On te donne le texte brut d'une facture. Tu extrais les champs structurés et tu réponds
UNIQUEMENT en JSON avec les clés:
"invoice_number", "invoice_date" (format AAAA-MM-JJ), "due_date" (format AAAA-MM-JJ),
"supplier" {"name", "siret", "vat"}, "client" {"name", "siret", "vat"},
"amounts" {"ht", "tva", "tva_rate", "ttc", "currency"},
"category", "anomalies" (liste de chaînes), "confidence_global" (entre 0 et 1).
Quand un champ est illisible ou absent, laisse-le vide et signale-le dans "anomalies".`

const extractionPromptTemplate = `Texte brut de la facture:

{{FACTURE_BRUTE}}`

const analysisContext = `Tu es un conseiller en gestion pour petites entreprises françaises.
On te donne les factures d'un utilisateur et l'état de ses rapprochements bancaires.
Tu produis un rapport d'optimisation et tu réponds UNIQUEMENT en JSON avec les clés:
"resume" (synthèse en quelques phrases),
"depenses_par_categorie" (objet catégorie -> montant),
"recommandations" (liste de chaînes),
"alertes" (liste de chaînes, factures impayées ou non rapprochées).`

const analysisPromptTemplate = `Factures:
{{factures_json}}

Rapprochements:
{{rapprochements_json}}

Produis le rapport d'optimisation.`

func fillTemplate(template string, replacements map[string]string) string {
	out := template
	for placeholder, value := range replacements {
		out = strings.ReplaceAll(out, placeholder, value)
	}
	return out
}
